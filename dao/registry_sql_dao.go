package dao

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/credit-scoring/feature-repo/datasource/sqldb"
	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"
)

const defaultRegistryTable = "registry_objects"

// RegistrySQLDao stores one row per object in a registry_objects table keyed by
// (project, kind, name).
type RegistrySQLDao struct {
	db      *sql.DB
	flavor  sqlbuilder.Flavor
	table   string
	project string
}

func NewRegistrySQLDao(config DaoConfig) (*RegistrySQLDao, error) {
	instance, err := sqldb.GetSQLDB(config.SQLName)
	if err != nil {
		return nil, err
	}

	dao := &RegistrySQLDao{
		db:      instance.DB,
		table:   config.SQLTable,
		project: config.ProjectName,
	}
	if dao.table == "" {
		dao.table = defaultRegistryTable
	}

	switch instance.Driver {
	case sqldb.Driver_Postgres:
		dao.flavor = sqlbuilder.PostgreSQL
	case sqldb.Driver_MySQL:
		dao.flavor = sqlbuilder.MySQL
	case sqldb.Driver_SQLite:
		dao.flavor = sqlbuilder.SQLite
	default:
		return nil, fmt.Errorf("not support sql driver, driver:%s", instance.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dao.createTable(ctx); err != nil {
		return nil, err
	}

	return dao, nil
}

func (d *RegistrySQLDao) blobType() string {
	switch d.flavor {
	case sqlbuilder.PostgreSQL:
		return "BYTEA"
	case sqlbuilder.MySQL:
		return "LONGBLOB"
	}
	return "BLOB"
}

func (d *RegistrySQLDao) createTable(ctx context.Context) error {
	ctb := d.flavor.NewCreateTableBuilder()
	ctb.CreateTable(d.table).IfNotExists()
	ctb.Define("project", "VARCHAR(255)", "NOT NULL")
	ctb.Define("kind", "VARCHAR(64)", "NOT NULL")
	ctb.Define("name", "VARCHAR(255)", "NOT NULL")
	ctb.Define("spec", d.blobType(), "NOT NULL")
	ctb.Define("updated_at", "BIGINT", "NOT NULL")
	ctb.Define("PRIMARY KEY", "(project, kind, name)")

	query, args := ctb.Build()
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "create registry table %s", d.table)
	}
	return nil
}

func (d *RegistrySQLDao) PutRecord(ctx context.Context, record Record) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin registry transaction")
	}
	defer tx.Rollback()

	delb := d.flavor.NewDeleteBuilder()
	delb.DeleteFrom(d.table).Where(
		delb.Equal("project", d.project),
		delb.Equal("kind", record.Kind),
		delb.Equal("name", record.Name),
	)
	query, args := delb.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "put %s %s", record.Kind, record.Name)
	}

	ib := d.flavor.NewInsertBuilder()
	ib.InsertInto(d.table).
		Cols("project", "kind", "name", "spec", "updated_at").
		Values(d.project, record.Kind, record.Name, record.Spec, time.Now().UnixMilli())
	query, args = ib.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "put %s %s", record.Kind, record.Name)
	}

	return errors.Wrapf(tx.Commit(), "put %s %s", record.Kind, record.Name)
}

func (d *RegistrySQLDao) DeleteRecord(ctx context.Context, kind, name string) error {
	delb := d.flavor.NewDeleteBuilder()
	delb.DeleteFrom(d.table).Where(
		delb.Equal("project", d.project),
		delb.Equal("kind", kind),
		delb.Equal("name", name),
	)
	query, args := delb.Build()
	_, err := d.db.ExecContext(ctx, query, args...)
	return errors.Wrapf(err, "delete %s %s", kind, name)
}

func (d *RegistrySQLDao) ListRecords(ctx context.Context, kind string) ([]Record, error) {
	sb := d.flavor.NewSelectBuilder()
	sb.Select("name", "spec").
		From(d.table).
		Where(sb.Equal("project", d.project), sb.Equal("kind", kind)).
		OrderBy("name")
	query, args := sb.Build()

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", kind)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record := Record{Kind: kind}
		if err := rows.Scan(&record.Name, &record.Spec); err != nil {
			return nil, errors.Wrapf(err, "scan %s", kind)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "list %s", kind)
	}
	return records, nil
}

// Close leaves the pool open; it belongs to the sqldb registry.
func (d *RegistrySQLDao) Close() error {
	return nil
}
