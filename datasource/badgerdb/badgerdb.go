package badgerdb

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

type Badger struct {
	Name string
	Path string
	DB   *badger.DB
}

var badgerInstances sync.Map

func GetBadger(name string) (*Badger, error) {
	value, ok := badgerInstances.Load(name)
	if !ok {
		return nil, fmt.Errorf("Badger not found, name:%s", name)
	}

	badgerInstance, ok := value.(*Badger)
	if !ok {
		return nil, fmt.Errorf("Badger not found, name:%s", name)
	}

	return badgerInstance, nil
}

// RegisterBadger opens the database at path, in memory when path is empty.
func RegisterBadger(name, path string) error {
	if _, ok := badgerInstances.Load(name); ok {
		return nil
	}

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger db error, name:%s, path:%s, err=%v", name, path, err)
	}

	badgerInstances.Store(name, &Badger{Name: name, Path: path, DB: db})
	return nil
}

func RemoveBadger(name string) {
	value, ok := badgerInstances.LoadAndDelete(name)
	if !ok {
		return
	}
	if b, ok := value.(*Badger); ok {
		b.DB.Close()
	}
}
