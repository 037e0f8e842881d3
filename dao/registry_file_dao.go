package dao

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"

	"github.com/credit-scoring/feature-repo/codec"
	"github.com/pkg/errors"
)

type fileRecord struct {
	Project string `json:"project" yaml:"project"`
	Kind    string `json:"kind" yaml:"kind"`
	Name    string `json:"name" yaml:"name"`
	Spec    string `json:"spec" yaml:"spec"` // base64
}

type fileRegistry struct {
	Version int          `json:"version" yaml:"version"`
	Records []fileRecord `json:"records" yaml:"records"`
}

// RegistryFileDao keeps every project of a registry in one file. The file is
// rewritten atomically on each change.
type RegistryFileDao struct {
	mu      sync.Mutex
	path    string
	project string
	codec   codec.Codec
}

func NewRegistryFileDao(config DaoConfig) (*RegistryFileDao, error) {
	if config.FilePath == "" {
		return nil, errors.New("file registry needs a path")
	}
	c := config.Codec
	if c == nil {
		c = codec.ProtoCodec{}
	}
	return &RegistryFileDao{
		path:    config.FilePath,
		project: config.ProjectName,
		codec:   c,
	}, nil
}

func (d *RegistryFileDao) load() (*fileRegistry, error) {
	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return &fileRegistry{Version: 1}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read registry file %s", d.path)
	}
	registry := &fileRegistry{}
	if len(data) == 0 {
		return registry, nil
	}
	if err := d.codec.Unmarshal(data, registry); err != nil {
		return nil, errors.Wrapf(err, "decode registry file %s", d.path)
	}
	return registry, nil
}

func (d *RegistryFileDao) save(registry *fileRegistry) error {
	registry.Version = 1
	data, err := d.codec.Marshal(registry)
	if err != nil {
		return errors.Wrap(err, "encode registry file")
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return errors.Wrapf(err, "create registry dir for %s", d.path)
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write registry file %s", tmp)
	}
	return errors.Wrapf(os.Rename(tmp, d.path), "replace registry file %s", d.path)
}

func (d *RegistryFileDao) PutRecord(ctx context.Context, record Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	registry, err := d.load()
	if err != nil {
		return err
	}
	r := fileRecord{
		Project: d.project,
		Kind:    record.Kind,
		Name:    record.Name,
		Spec:    base64.StdEncoding.EncodeToString(record.Spec),
	}
	replaced := false
	for i, existing := range registry.Records {
		if existing.Project == d.project && existing.Kind == record.Kind && existing.Name == record.Name {
			registry.Records[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		registry.Records = append(registry.Records, r)
	}
	return d.save(registry)
}

func (d *RegistryFileDao) DeleteRecord(ctx context.Context, kind, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	registry, err := d.load()
	if err != nil {
		return err
	}
	records := registry.Records[:0]
	for _, existing := range registry.Records {
		if existing.Project == d.project && existing.Kind == kind && existing.Name == name {
			continue
		}
		records = append(records, existing)
	}
	registry.Records = records
	return d.save(registry)
}

func (d *RegistryFileDao) ListRecords(ctx context.Context, kind string) ([]Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	registry, err := d.load()
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, r := range registry.Records {
		if r.Project != d.project || r.Kind != kind {
			continue
		}
		spec, err := base64.StdEncoding.DecodeString(r.Spec)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s %s", kind, r.Name)
		}
		records = append(records, Record{Kind: r.Kind, Name: r.Name, Spec: spec})
	}
	sortRecords(records)
	return records, nil
}

func (d *RegistryFileDao) Close() error {
	return nil
}
