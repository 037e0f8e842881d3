package dao

import (
	"context"
	"fmt"
	"sort"

	"github.com/credit-scoring/feature-repo/constants"
)

// Record is one stored registry object. Spec holds the codec-encoded api model.
type Record struct {
	Kind string
	Name string
	Spec []byte
}

// RegistryDao persists the registry records of one project.
type RegistryDao interface {
	PutRecord(ctx context.Context, record Record) error
	DeleteRecord(ctx context.Context, kind, name string) error
	// ListRecords returns the records of one kind ordered by name.
	ListRecords(ctx context.Context, kind string) ([]Record, error)
	Close() error
}

func NewRegistryDao(config DaoConfig) (RegistryDao, error) {
	if config.ProjectName == "" {
		return nil, fmt.Errorf("registry dao needs a project name")
	}
	switch config.RegistryType {
	case constants.Registry_Type_File:
		return NewRegistryFileDao(config)
	case constants.Registry_Type_SQL:
		return NewRegistrySQLDao(config)
	case constants.Registry_Type_Redis:
		return NewRegistryRedisDao(config)
	case constants.Registry_Type_Badger:
		return NewRegistryBadgerDao(config)
	case constants.Registry_Type_TableStore:
		return NewRegistryTableStoreDao(config)
	}

	return nil, fmt.Errorf("not found RegistryDao implement, type:%s", config.RegistryType)
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
}
