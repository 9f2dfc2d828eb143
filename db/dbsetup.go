package db

import (
	"esxi-stats/config"
	"esxi-stats/db/badgerdb"
	"esxi-stats/db/history"
)

func Setup() {
	if config.G.Server.Db.Badger != nil {
		badgerdb.Setup()
	}
	if config.G.Notify.History && config.G.Server.Db.Sqlite != nil && config.G.Server.Db.Sqlite.Path != "" {
		history.Setup(config.G.Server.Db.Sqlite.Path)
	}
}

func Close() {
	badgerdb.Close()
	if history.INST != nil {
		_ = history.INST.Close()
	}
}
