package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	Driver_Postgres = "postgres"
	Driver_MySQL    = "mysql"
	Driver_SQLite   = "sqlite"
)

func init() {
	sql.Register("registry-postgres", &PostgresDriver{})
}

// PostgresDriver bounds every registry statement so a stuck lock does not
// hang apply.
type PostgresDriver struct {
	driver pq.Driver
}

func (d PostgresDriver) Open(name string) (driver.Conn, error) {
	conn, err := d.driver.Open(name)
	if err != nil {
		return nil, err
	}

	if stmt, err := conn.Prepare("set statement_timeout = 5000"); err == nil {
		stmt.Exec(nil)
		stmt.Close()
	}
	return conn, err
}

type SQLDB struct {
	DSN          string
	Driver       string
	DB           *sql.DB
	Name         string
	RegisterTime time.Time
}

var sqlInstances sync.Map

func GetSQLDB(name string) (*SQLDB, error) {
	value, ok := sqlInstances.Load(name)
	if !ok {
		return nil, fmt.Errorf("SQLDB not found, name:%s", name)
	}

	sqlInstance, ok := value.(*SQLDB)
	if !ok {
		return nil, fmt.Errorf("SQLDB not found, name:%s", name)
	}

	return sqlInstance, nil
}

func (m *SQLDB) Init() error {
	var driverName string
	switch m.Driver {
	case Driver_Postgres:
		driverName = "registry-postgres"
	case Driver_MySQL:
		driverName = "mysql"
	case Driver_SQLite:
		driverName = "sqlite"
	default:
		return fmt.Errorf("not support sql driver, driver:%s", m.Driver)
	}

	db, err := sql.Open(driverName, m.DSN)
	if err != nil {
		return err
	}

	db.SetConnMaxLifetime(60 * time.Minute)
	if m.Driver == Driver_SQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(5)
		db.SetMaxOpenConns(10)
	}

	m.DB = db
	return m.DB.Ping()
}

// RegisterSQLDB opens the database once per name; later calls with the same
// name reuse the registered connection pool.
func RegisterSQLDB(name, driverName, dsn string) error {
	if _, ok := sqlInstances.Load(name); ok {
		return nil
	}
	m := &SQLDB{
		DSN:          dsn,
		Driver:       driverName,
		Name:         name,
		RegisterTime: time.Now(),
	}
	if err := m.Init(); err != nil {
		if m.DB != nil {
			m.DB.Close()
		}
		return fmt.Errorf("register sqldb error, name:%s, driver:%s, err=%v", name, driverName, err)
	}
	sqlInstances.Store(name, m)
	return nil
}

func RemoveSQLDB(name string) {
	value, ok := sqlInstances.Load(name)
	if !ok {
		return
	}
	m, ok := value.(*SQLDB)
	if !ok {
		return
	}

	if m.DB != nil {
		m.DB.Close()
	}

	sqlInstances.Delete(name)
}
