package dao

import (
	"context"
	"fmt"

	"github.com/credit-scoring/feature-repo/datasource/redisdb"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RegistryRedisDao keeps one hash per project and kind; hash fields are object names.
type RegistryRedisDao struct {
	client    *redis.Client
	keyPrefix string
	project   string
}

func NewRegistryRedisDao(config DaoConfig) (*RegistryRedisDao, error) {
	instance, err := redisdb.GetRedis(config.RedisName)
	if err != nil {
		return nil, err
	}
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "featurerepo:registry"
	}
	return &RegistryRedisDao{
		client:    instance.Client,
		keyPrefix: prefix,
		project:   config.ProjectName,
	}, nil
}

func (d *RegistryRedisDao) key(kind string) string {
	return fmt.Sprintf("%s:%s:%s", d.keyPrefix, d.project, kind)
}

func (d *RegistryRedisDao) PutRecord(ctx context.Context, record Record) error {
	err := d.client.HSet(ctx, d.key(record.Kind), record.Name, record.Spec).Err()
	return errors.Wrapf(err, "put %s %s", record.Kind, record.Name)
}

func (d *RegistryRedisDao) DeleteRecord(ctx context.Context, kind, name string) error {
	err := d.client.HDel(ctx, d.key(kind), name).Err()
	return errors.Wrapf(err, "delete %s %s", kind, name)
}

func (d *RegistryRedisDao) ListRecords(ctx context.Context, kind string) ([]Record, error) {
	values, err := d.client.HGetAll(ctx, d.key(kind)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", kind)
	}
	records := make([]Record, 0, len(values))
	for name, spec := range values {
		records = append(records, Record{Kind: kind, Name: name, Spec: []byte(spec)})
	}
	sortRecords(records)
	return records, nil
}

func (d *RegistryRedisDao) Close() error {
	return nil
}
