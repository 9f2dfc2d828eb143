package badgerdb

import (
	"esxi-stats/app/logging"
	"esxi-stats/config"
	"github.com/dgraph-io/badger/v3"
)

var db *badger.DB

func Setup() {
	dataPath := config.G.Server.Db.Badger.Path
	if dataPath != "" {
		if err := Open(dataPath); err != nil {
			logging.L().Panic("failed to open badger DB ", err)
		}
	}
}

func Open(dataPath string) error {
	opts := badger.DefaultOptions(dataPath).WithLogger(nil)
	d, err := badger.Open(opts)
	if err != nil {
		return err
	}
	db = d
	return nil
}

func Close() {
	if db != nil {
		if err := db.Close(); err != nil {
			logging.L().Error("failed to close badger DB: ", err)
		}
		db = nil
	}
}

func Set(k, v string) {
	if !isAvailable() {
		return
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()
	err := wb.SetEntry(badger.NewEntry([]byte(k), []byte(v)).WithMeta(0))
	if err != nil {
		logging.L().Errorf("failed to write key [%s]: %v", k, err)
		return
	}

	err = wb.Flush()
	if err != nil {
		logging.L().Errorf("failed to flush key [%s]: %v", k, err)
	}
}

func Get(k string) string {
	if !isAvailable() {
		return ""
	}

	var val []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil && err != badger.ErrKeyNotFound {
		logging.L().Errorf("failed to read key [%s]: %v", k, err)
	}
	return string(val)
}

func Del(k string) error {
	if !isAvailable() {
		return nil
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()
	err := wb.Delete([]byte(k))
	if err != nil {
		logging.L().Errorf("failed to delete key [%s]: %v", k, err)
		return err
	}
	err = wb.Flush()
	if err != nil {
		logging.L().Errorf("failed to flush delete of key [%s]: %v", k, err)
	}
	return err
}

func GetAll() map[string]string {
	var all = make(map[string]string)
	if !isAvailable() {
		return all
	}

	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			v, err := item.ValueCopy(nil)
			if err != nil {
				logging.L().Errorf("failed to read value of key [%s]: %v", k, err)
				continue
			}
			all[string(k)] = string(v)
		}
		return nil
	})

	if err != nil {
		logging.L().Error(err)
	}
	return all
}

func isAvailable() bool {
	if db == nil {
		logging.L().Debug("badger DB is not enabled")
		return false
	}
	return true
}
