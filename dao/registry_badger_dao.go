package dao

import (
	"context"
	"strings"

	"github.com/credit-scoring/feature-repo/datasource/badgerdb"
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// RegistryBadgerDao stores records under registry/<project>/<kind>/<name>.
type RegistryBadgerDao struct {
	db      *badger.DB
	project string
}

func NewRegistryBadgerDao(config DaoConfig) (*RegistryBadgerDao, error) {
	instance, err := badgerdb.GetBadger(config.BadgerName)
	if err != nil {
		return nil, err
	}
	return &RegistryBadgerDao{db: instance.DB, project: config.ProjectName}, nil
}

func (d *RegistryBadgerDao) prefix(kind string) string {
	return "registry/" + d.project + "/" + kind + "/"
}

func (d *RegistryBadgerDao) PutRecord(ctx context.Context, record Record) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(d.prefix(record.Kind)+record.Name), record.Spec)
	})
	return errors.Wrapf(err, "put %s %s", record.Kind, record.Name)
}

func (d *RegistryBadgerDao) DeleteRecord(ctx context.Context, kind, name string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(d.prefix(kind) + name))
	})
	return errors.Wrapf(err, "delete %s %s", kind, name)
}

func (d *RegistryBadgerDao) ListRecords(ctx context.Context, kind string) ([]Record, error) {
	var records []Record
	prefix := d.prefix(kind)

	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			spec, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, Record{
				Kind: kind,
				Name: strings.TrimPrefix(string(item.Key()), prefix),
				Spec: spec,
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", kind)
	}
	sortRecords(records)
	return records, nil
}

func (d *RegistryBadgerDao) Close() error {
	return nil
}
