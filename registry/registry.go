// Package registry validates feature declarations and keeps them in a
// registry store, one project per registry namespace.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/codec"
	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/dao"
	"github.com/credit-scoring/feature-repo/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type Registry struct {
	projectName string
	dao         dao.RegistryDao
	codec       codec.Codec
	logger      zerolog.Logger
	now         func() time.Time
}

type Option func(r *Registry)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithCodec sets the codec of record specs, protobuf by default.
func WithCodec(c codec.Codec) Option {
	return func(r *Registry) {
		r.codec = c
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(projectName string, registryDao dao.RegistryDao, opts ...Option) *Registry {
	r := &Registry{
		projectName: projectName,
		dao:         registryDao,
		codec:       codec.ProtoCodec{},
		logger:      zerolog.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("project", projectName).Logger()
	return r
}

func (r *Registry) ProjectName() string {
	return r.projectName
}

type applyOptions struct {
	prune bool
}

type ApplyOption func(o *applyOptions)

// WithPrune controls whether stored objects missing from the declarations are
// deleted. Pruning is on by default.
func WithPrune(prune bool) ApplyOption {
	return func(o *applyOptions) {
		o.prune = prune
	}
}

type declared struct {
	kind string
	name string
	obj  interface{}
}

func declaredObjects(set *DeclarationSet, projectName string) []declared {
	var objs []declared
	for _, entity := range set.Entities {
		objs = append(objs, declared{constants.Object_Kind_Entity, entity.Name, entity.ToAPI(projectName)})
	}
	for _, source := range set.DataSources {
		objs = append(objs, declared{constants.Object_Kind_DataSource, source.GetName(), source.ToAPI(projectName)})
	}
	for _, view := range set.FeatureViews {
		objs = append(objs, declared{constants.Object_Kind_FeatureView, view.Name, view.ToAPI(projectName)})
	}
	for _, service := range set.FeatureServices {
		objs = append(objs, declared{constants.Object_Kind_FeatureService, service.Name, service.ToAPI(projectName)})
	}
	return objs
}

// Plan validates the declarations and diffs them against the stored registry
// without writing anything.
func (r *Registry) Plan(ctx context.Context, objects []domain.Object, opts ...ApplyOption) (*Plan, error) {
	options := applyOptions{prune: true}
	for _, opt := range opts {
		opt(&options)
	}

	set, err := Validate(objects)
	if err != nil {
		return nil, err
	}

	stored, err := r.loadObjects(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{ProjectName: r.projectName}
	now := r.now()
	seen := make(map[string]map[string]bool)
	for _, d := range declaredObjects(set, r.projectName) {
		if seen[d.kind] == nil {
			seen[d.kind] = make(map[string]bool)
		}
		seen[d.kind][d.name] = true

		meta := metadataOf(d.obj)
		action := Action{Kind: d.kind, Name: d.name}
		if prev, ok := stored[d.kind][d.name]; ok {
			prevMeta := metadataOf(prev)
			*meta.id = *prevMeta.id
			*meta.createdAt = *prevMeta.createdAt
			*meta.lastUpdatedAt = *prevMeta.lastUpdatedAt

			prevPrint, err := fingerprint(prev)
			if err != nil {
				return nil, err
			}
			curPrint, err := fingerprint(d.obj)
			if err != nil {
				return nil, err
			}
			if prevPrint == curPrint {
				action.Type = Action_Unchanged
				plan.Actions = append(plan.Actions, action)
				continue
			}
			action.Type = Action_Update
			*meta.lastUpdatedAt = now
		} else {
			action.Type = Action_Create
			*meta.id = uuid.NewString()
			*meta.createdAt = now
			*meta.lastUpdatedAt = now
		}

		spec, err := r.codec.Marshal(d.obj)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s error, err=%v", d.kind, d.name, err)
		}
		action.record = &dao.Record{Kind: d.kind, Name: d.name, Spec: spec}
		plan.Actions = append(plan.Actions, action)
	}

	if options.prune {
		for i := len(constants.ObjectKinds) - 1; i >= 0; i-- {
			kind := constants.ObjectKinds[i]
			names := make([]string, 0, len(stored[kind]))
			for name := range stored[kind] {
				if !seen[kind][name] {
					names = append(names, name)
				}
			}
			sort.Strings(names)
			for _, name := range names {
				plan.Actions = append(plan.Actions, Action{Type: Action_Delete, Kind: kind, Name: name})
			}
		}
	}

	return plan, nil
}

// Apply validates the declarations and writes the planned changes. It returns
// the executed plan. A failed write leaves earlier writes in place; applying
// again converges.
func (r *Registry) Apply(ctx context.Context, objects []domain.Object, opts ...ApplyOption) (*Plan, error) {
	plan, err := r.Plan(ctx, objects, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.execute(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Teardown deletes every object of the project.
func (r *Registry) Teardown(ctx context.Context) (*Plan, error) {
	return r.Apply(ctx, nil, WithPrune(true))
}

func (r *Registry) execute(ctx context.Context, plan *Plan) error {
	for _, action := range plan.Actions {
		switch action.Type {
		case Action_Create, Action_Update:
			if err := r.dao.PutRecord(ctx, *action.record); err != nil {
				return err
			}
		case Action_Delete:
			if err := r.dao.DeleteRecord(ctx, action.Kind, action.Name); err != nil {
				return err
			}
		default:
			continue
		}
		r.logger.Info().Str("action", string(action.Type)).Str("kind", action.Kind).Str("name", action.Name).Msg("registry apply")
	}
	return nil
}

func (r *Registry) listObjects(ctx context.Context, kind string) ([]interface{}, error) {
	records, err := r.dao.ListRecords(ctx, kind)
	if err != nil {
		return nil, err
	}
	objs := make([]interface{}, 0, len(records))
	for _, record := range records {
		obj := newAPIObject(kind)
		if err := r.codec.Unmarshal(record.Spec, obj); err != nil {
			return nil, fmt.Errorf("decode %s %s error, err=%v", kind, record.Name, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (r *Registry) loadObjects(ctx context.Context) (map[string]map[string]interface{}, error) {
	stored := make(map[string]map[string]interface{}, len(constants.ObjectKinds))
	for _, kind := range constants.ObjectKinds {
		objs, err := r.listObjects(ctx, kind)
		if err != nil {
			return nil, err
		}
		stored[kind] = make(map[string]interface{}, len(objs))
		for _, obj := range objs {
			stored[kind][objectName(obj)] = obj
		}
	}
	return stored, nil
}

// Snapshot returns the stored registry of the project, every kind ordered by name.
func (r *Registry) Snapshot(ctx context.Context) (*api.Registry, error) {
	snapshot := &api.Registry{ProjectName: r.projectName}
	for _, kind := range constants.ObjectKinds {
		objs, err := r.listObjects(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, obj := range objs {
			switch o := obj.(type) {
			case *api.FeatureEntity:
				snapshot.FeatureEntities = append(snapshot.FeatureEntities, o)
			case *api.Datasource:
				snapshot.Datasources = append(snapshot.Datasources, o)
			case *api.FeatureView:
				snapshot.FeatureViews = append(snapshot.FeatureViews, o)
			case *api.FeatureService:
				snapshot.FeatureServices = append(snapshot.FeatureServices, o)
			}
		}
	}
	return snapshot, nil
}

// LoadProject rebuilds the stored declarations of the project.
func (r *Registry) LoadProject(ctx context.Context) (*domain.Project, error) {
	snapshot, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewProjectFromRegistry(snapshot)
}

func (r *Registry) getObject(ctx context.Context, kind, name string) (interface{}, error) {
	objs, err := r.listObjects(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, obj := range objs {
		if objectName(obj) == name {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", strings.ReplaceAll(kind, "_", " "), name, ErrNotFound)
}

func objectName(obj interface{}) string {
	switch o := obj.(type) {
	case *api.FeatureEntity:
		return o.FeatureEntityName
	case *api.Datasource:
		return o.Name
	case *api.FeatureView:
		return o.Name
	case *api.FeatureService:
		return o.Name
	}
	return ""
}

func (r *Registry) GetEntity(ctx context.Context, name string) (*api.FeatureEntity, error) {
	obj, err := r.getObject(ctx, constants.Object_Kind_Entity, name)
	if err != nil {
		return nil, err
	}
	return obj.(*api.FeatureEntity), nil
}

func (r *Registry) GetDataSource(ctx context.Context, name string) (*api.Datasource, error) {
	obj, err := r.getObject(ctx, constants.Object_Kind_DataSource, name)
	if err != nil {
		return nil, err
	}
	return obj.(*api.Datasource), nil
}

func (r *Registry) GetFeatureView(ctx context.Context, name string) (*api.FeatureView, error) {
	obj, err := r.getObject(ctx, constants.Object_Kind_FeatureView, name)
	if err != nil {
		return nil, err
	}
	return obj.(*api.FeatureView), nil
}

func (r *Registry) GetFeatureService(ctx context.Context, name string) (*api.FeatureService, error) {
	obj, err := r.getObject(ctx, constants.Object_Kind_FeatureService, name)
	if err != nil {
		return nil, err
	}
	return obj.(*api.FeatureService), nil
}

/*
ListFeatureViews lists the stored feature views ordered by name.
  - @param ctx context.Context
  - @param opts *api.ListFeatureViewsOpts - optional filters and paging, may be nil

@return api.ListFeatureViewsResponse
*/
func (r *Registry) ListFeatureViews(ctx context.Context, opts *api.ListFeatureViewsOpts) (api.ListFeatureViewsResponse, error) {
	var response api.ListFeatureViewsResponse
	if opts == nil {
		opts = &api.ListFeatureViewsOpts{}
	}

	var filter *Filter
	if opts.Filter.IsSet() && opts.Filter.Value() != "" {
		f, err := CompileFilter(opts.Filter.Value())
		if err != nil {
			return response, err
		}
		filter = f
	}

	objs, err := r.listObjects(ctx, constants.Object_Kind_FeatureView)
	if err != nil {
		return response, err
	}

	var views []*api.FeatureView
	for _, obj := range objs {
		view := obj.(*api.FeatureView)
		if opts.Entity.IsSet() && !containsString(view.Entities, opts.Entity.Value()) {
			continue
		}
		if opts.Tag.IsSet() && !matchTag(view.Tags, opts.Tag.Value()) {
			continue
		}
		if filter != nil {
			ok, err := filter.Match(view)
			if err != nil {
				return response, err
			}
			if !ok {
				continue
			}
		}
		views = append(views, view)
	}

	response.TotalCount = len(views)
	if opts.Pagesize.IsSet() && opts.Pagesize.Value() > 0 {
		pageSize := int(opts.Pagesize.Value())
		pageNumber := 1
		if opts.Pagenumber.IsSet() && opts.Pagenumber.Value() > 1 {
			pageNumber = int(opts.Pagenumber.Value())
		}
		start := (pageNumber - 1) * pageSize
		if start >= len(views) {
			views = nil
		} else {
			end := start + pageSize
			if end > len(views) {
				end = len(views)
			}
			views = views[start:end]
		}
	}
	response.FeatureViews = views
	return response, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// matchTag matches "key" against tag presence and "key=value" against the tag value.
func matchTag(tags map[string]string, tag string) bool {
	key, value, hasValue := strings.Cut(tag, "=")
	v, ok := tags[key]
	if !ok {
		return false
	}
	return !hasValue || v == value
}
