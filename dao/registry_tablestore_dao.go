package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/aliyun/aliyun-tablestore-go-sdk/tablestore"
	fstablestore "github.com/credit-scoring/feature-repo/datasource/tablestore"
	"github.com/pkg/errors"
)

const (
	tablestorePartitionKey = "project_kind"
	tablestoreNameKey      = "name"
	tablestoreSpecColumn   = "spec"
	tablestoreUpdateColumn = "updated_at"
)

// RegistryTableStoreDao expects a table whose primary key is
// (project_kind STRING, name STRING).
type RegistryTableStoreDao struct {
	tablestoreClient *tablestore.TableStoreClient
	table            string
	project          string
}

func NewRegistryTableStoreDao(config DaoConfig) (*RegistryTableStoreDao, error) {
	client, err := fstablestore.GetTableStoreClient(config.TableStoreName)
	if err != nil {
		return nil, err
	}
	if config.TableStoreTableName == "" {
		return nil, errors.New("tablestore registry needs a table name")
	}
	return &RegistryTableStoreDao{
		tablestoreClient: client.GetClient(),
		table:            config.TableStoreTableName,
		project:          config.ProjectName,
	}, nil
}

func (d *RegistryTableStoreDao) partition(kind string) string {
	return fmt.Sprintf("%s/%s", d.project, kind)
}

func (d *RegistryTableStoreDao) PutRecord(ctx context.Context, record Record) error {
	putPk := new(tablestore.PrimaryKey)
	putPk.AddPrimaryKeyColumn(tablestorePartitionKey, d.partition(record.Kind))
	putPk.AddPrimaryKeyColumn(tablestoreNameKey, record.Name)

	putRowChange := new(tablestore.PutRowChange)
	putRowChange.TableName = d.table
	putRowChange.PrimaryKey = putPk
	putRowChange.AddColumn(tablestoreSpecColumn, record.Spec)
	putRowChange.AddColumn(tablestoreUpdateColumn, time.Now().UnixMilli())
	putRowChange.SetCondition(tablestore.RowExistenceExpectation_IGNORE)

	putRowRequest := new(tablestore.PutRowRequest)
	putRowRequest.PutRowChange = putRowChange
	_, err := d.tablestoreClient.PutRow(putRowRequest)
	return errors.Wrapf(err, "put %s %s", record.Kind, record.Name)
}

func (d *RegistryTableStoreDao) DeleteRecord(ctx context.Context, kind, name string) error {
	deletePk := new(tablestore.PrimaryKey)
	deletePk.AddPrimaryKeyColumn(tablestorePartitionKey, d.partition(kind))
	deletePk.AddPrimaryKeyColumn(tablestoreNameKey, name)

	deleteRowChange := new(tablestore.DeleteRowChange)
	deleteRowChange.TableName = d.table
	deleteRowChange.PrimaryKey = deletePk
	deleteRowChange.SetCondition(tablestore.RowExistenceExpectation_IGNORE)

	deleteRowRequest := new(tablestore.DeleteRowRequest)
	deleteRowRequest.DeleteRowChange = deleteRowChange
	_, err := d.tablestoreClient.DeleteRow(deleteRowRequest)
	return errors.Wrapf(err, "delete %s %s", kind, name)
}

func (d *RegistryTableStoreDao) ListRecords(ctx context.Context, kind string) ([]Record, error) {
	rangeRowQueryCriteria := &tablestore.RangeRowQueryCriteria{}
	rangeRowQueryCriteria.TableName = d.table

	startPK := new(tablestore.PrimaryKey)
	startPK.AddPrimaryKeyColumn(tablestorePartitionKey, d.partition(kind))
	startPK.AddPrimaryKeyColumnWithMinValue(tablestoreNameKey)
	endPK := new(tablestore.PrimaryKey)
	endPK.AddPrimaryKeyColumn(tablestorePartitionKey, d.partition(kind))
	endPK.AddPrimaryKeyColumnWithMaxValue(tablestoreNameKey)

	rangeRowQueryCriteria.StartPrimaryKey = startPK
	rangeRowQueryCriteria.EndPrimaryKey = endPK
	rangeRowQueryCriteria.Direction = tablestore.FORWARD
	rangeRowQueryCriteria.MaxVersion = 1
	rangeRowQueryCriteria.ColumnsToGet = []string{tablestoreSpecColumn}

	getRangeRequest := &tablestore.GetRangeRequest{}
	getRangeRequest.RangeRowQueryCriteria = rangeRowQueryCriteria

	var records []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		getRangeResp, err := d.tablestoreClient.GetRange(getRangeRequest)
		if err != nil {
			return nil, errors.Wrapf(err, "list %s", kind)
		}
		for _, row := range getRangeResp.Rows {
			if row.PrimaryKey == nil || len(row.PrimaryKey.PrimaryKeys) < 2 {
				continue
			}
			name, _ := row.PrimaryKey.PrimaryKeys[1].Value.(string)
			record := Record{Kind: kind, Name: name}
			for _, column := range row.Columns {
				if column.ColumnName == tablestoreSpecColumn {
					record.Spec, _ = column.Value.([]byte)
				}
			}
			records = append(records, record)
		}
		if getRangeResp.NextStartPrimaryKey == nil {
			break
		}
		getRangeRequest.RangeRowQueryCriteria.StartPrimaryKey = getRangeResp.NextStartPrimaryKey
	}

	return records, nil
}

func (d *RegistryTableStoreDao) Close() error {
	return nil
}
