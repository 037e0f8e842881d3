package featurestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/credit-scoring/feature-repo/codec"
	"github.com/credit-scoring/feature-repo/config"
	"github.com/credit-scoring/feature-repo/dao"
	"github.com/credit-scoring/feature-repo/domain"
	"github.com/credit-scoring/feature-repo/registry"
	"github.com/rs/zerolog"
)

type ClientOption func(c *FeatureStoreClient)

func WithLogger(l zerolog.Logger) ClientOption {
	return func(e *FeatureStoreClient) {
		e.Logger = l
	}
}

func WithErrorLogger(l zerolog.Logger) ClientOption {
	return func(e *FeatureStoreClient) {
		e.ErrorLogger = &l
	}
}

// WithLoopData overrides registry.refresh of the config.
func WithLoopData(loopLoad bool) ClientOption {
	return func(e *FeatureStoreClient) {
		e.loopLoadData = loopLoad
		e.loopLoadDataSet = true
	}
}

func WithLoopInterval(interval time.Duration) ClientOption {
	return func(e *FeatureStoreClient) {
		e.loopInterval = interval
	}
}

// WithRegistryDao uses registryDao instead of opening the store named by the config.
func WithRegistryDao(registryDao dao.RegistryDao) ClientOption {
	return func(e *FeatureStoreClient) {
		e.registryDao = registryDao
	}
}

type FeatureStoreClient struct {
	// loopLoadData flag to invoke loopLoadProjectData function
	loopLoadData    bool
	loopLoadDataSet bool
	loopInterval    time.Duration

	config *config.Config

	registryDao dao.RegistryDao
	ownDao      bool
	registry    *registry.Registry

	mu         sync.RWMutex
	projectMap map[string]*domain.Project

	// Logger specifies a logger used to report internal changes within the client
	Logger zerolog.Logger

	// ErrorLogger is the logger to report errors
	ErrorLogger *zerolog.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewFeatureStoreClient(cfg *config.Config, opts ...ClientOption) (*FeatureStoreClient, error) {
	client := FeatureStoreClient{
		config:       cfg,
		projectMap:   make(map[string]*domain.Project),
		loopInterval: time.Minute,
		Logger:       zerolog.Nop(),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(&client)
	}
	if !client.loopLoadDataSet {
		client.loopLoadData = cfg.Registry.Refresh
	}

	c, err := codec.New(cfg.Registry.Codec)
	if err != nil {
		return nil, err
	}

	if client.registryDao == nil {
		registryDao, err := OpenRegistryDao(cfg, c)
		if err != nil {
			return nil, err
		}
		client.registryDao = registryDao
		client.ownDao = true
	}

	client.registry = registry.NewRegistry(cfg.Project, client.registryDao, registry.WithCodec(c), registry.WithLogger(client.Logger))

	if err := client.LoadProjectData(context.Background()); err != nil {
		client.release()
		return nil, err
	}

	if client.loopLoadData {
		go client.loopLoadProjectData()
	} else {
		close(client.done)
	}

	return &client, nil
}

func (c *FeatureStoreClient) Registry() *registry.Registry {
	return c.registry
}

func (c *FeatureStoreClient) GetProject(name string) (*domain.Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	project, ok := c.projectMap[name]
	if ok {
		return project, nil
	}

	return nil, fmt.Errorf("not found project, name:%s", name)
}

func (c *FeatureStoreClient) logError(err error) {
	if c.ErrorLogger != nil {
		c.ErrorLogger.Error().Err(err).Send()
		return
	}

	c.Logger.Error().Err(err).Send()
}

// LoadProjectData loads the project of the config from the registry store.
func (c *FeatureStoreClient) LoadProjectData(ctx context.Context) error {
	project, err := c.registry.LoadProject(ctx)
	if err != nil {
		c.logError(fmt.Errorf("load project error, err=%v", err))
		return err
	}

	c.mu.Lock()
	c.projectMap = map[string]*domain.Project{project.ProjectName: project}
	c.mu.Unlock()

	c.Logger.Debug().Str("project", project.ProjectName).Int("feature_views", len(project.FeatureViewMap)).Msg("project loaded")
	return nil
}

func (c *FeatureStoreClient) loopLoadProjectData() {
	defer close(c.done)
	ticker := time.NewTicker(c.loopInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.LoadProjectData(context.Background())
		}
	}
}

func (c *FeatureStoreClient) Plan(ctx context.Context, objects []domain.Object, opts ...registry.ApplyOption) (*registry.Plan, error) {
	return c.registry.Plan(ctx, objects, opts...)
}

// Apply registers objects and reloads the project.
func (c *FeatureStoreClient) Apply(ctx context.Context, objects []domain.Object, opts ...registry.ApplyOption) (*registry.Plan, error) {
	plan, err := c.registry.Apply(ctx, objects, opts...)
	if err != nil {
		c.logError(fmt.Errorf("apply error, err=%v", err))
		return plan, err
	}
	return plan, c.LoadProjectData(ctx)
}

func (c *FeatureStoreClient) Teardown(ctx context.Context) (*registry.Plan, error) {
	plan, err := c.registry.Teardown(ctx)
	if err != nil {
		c.logError(fmt.Errorf("teardown error, err=%v", err))
		return plan, err
	}
	return plan, c.LoadProjectData(ctx)
}

// Close stops the reload loop and releases the registry store.
func (c *FeatureStoreClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		err = c.release()
	})
	return err
}

// release closes the registry store when the client opened it. A store passed
// with WithRegistryDao is left to the caller.
func (c *FeatureStoreClient) release() error {
	if !c.ownDao {
		return nil
	}
	err := c.registryDao.Close()
	ReleaseRegistryClients(c.config)
	return err
}
