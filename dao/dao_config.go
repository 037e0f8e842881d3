package dao

import (
	"github.com/credit-scoring/feature-repo/codec"
)

type DaoConfig struct {
	RegistryType string
	ProjectName  string

	// file
	FilePath string
	Codec    codec.Codec

	// sql, name of the connection registered in datasource/sqldb
	SQLName  string
	SQLTable string

	// redis
	RedisName string
	KeyPrefix string

	// badger
	BadgerName string

	// tablestore
	TableStoreName      string
	TableStoreTableName string
}
