package featurestore

import (
	"fmt"

	"github.com/credit-scoring/feature-repo/codec"
	"github.com/credit-scoring/feature-repo/config"
	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/dao"
	"github.com/credit-scoring/feature-repo/datasource/badgerdb"
	"github.com/credit-scoring/feature-repo/datasource/redisdb"
	"github.com/credit-scoring/feature-repo/datasource/sqldb"
	fstablestore "github.com/credit-scoring/feature-repo/datasource/tablestore"
)

// OpenRegistryDao registers the client of the configured registry store and
// returns a dao over it. Clients are registered under the project name.
func OpenRegistryDao(cfg *config.Config, c codec.Codec) (dao.RegistryDao, error) {
	name := "registry_" + cfg.Project
	daoConfig := dao.DaoConfig{
		RegistryType: cfg.Registry.Type,
		ProjectName:  cfg.Project,
	}

	switch cfg.Registry.Type {
	case constants.Registry_Type_File:
		daoConfig.FilePath = cfg.Registry.Path
		daoConfig.Codec = c
	case constants.Registry_Type_SQL:
		if err := sqldb.RegisterSQLDB(name, cfg.Registry.Driver, cfg.Registry.DSN); err != nil {
			return nil, err
		}
		daoConfig.SQLName = name
		daoConfig.SQLTable = cfg.Registry.Table
	case constants.Registry_Type_Redis:
		if err := redisdb.RegisterRedis(name, cfg.Registry.Address, cfg.Registry.Password, cfg.Registry.DB); err != nil {
			return nil, err
		}
		daoConfig.RedisName = name
	case constants.Registry_Type_Badger:
		if err := badgerdb.RegisterBadger(name, cfg.Registry.Path); err != nil {
			return nil, err
		}
		daoConfig.BadgerName = name
	case constants.Registry_Type_TableStore:
		client := fstablestore.NewClient(cfg.Registry.Endpoint, cfg.Registry.Instance, cfg.Registry.AccessKeyId, cfg.Registry.AccessKeySecret)
		fstablestore.RegisterTableStoreClient(name, client)
		daoConfig.TableStoreName = name
		daoConfig.TableStoreTableName = cfg.Registry.Table
	default:
		return nil, fmt.Errorf("not support registry type:%s", cfg.Registry.Type)
	}

	registryDao, err := dao.NewRegistryDao(daoConfig)
	if err != nil {
		ReleaseRegistryClients(cfg)
		return nil, err
	}
	return registryDao, nil
}

// ReleaseRegistryClients closes the clients OpenRegistryDao registered for cfg.
func ReleaseRegistryClients(cfg *config.Config) {
	name := "registry_" + cfg.Project
	switch cfg.Registry.Type {
	case constants.Registry_Type_SQL:
		sqldb.RemoveSQLDB(name)
	case constants.Registry_Type_Redis:
		redisdb.RemoveRedis(name)
	case constants.Registry_Type_Badger:
		badgerdb.RemoveBadger(name)
	case constants.Registry_Type_TableStore:
		fstablestore.RemoveTableStoreClient(name)
	}
}
