package config

import (
	"encoding/json"
	"esxi-stats/vsphere/protocol"
	"flag"
	"github.com/spf13/viper"
	"log"
	"testing"
)

type Config struct {
	Server struct {
		Mode string `mapstructure:"mode"`
		Port int    `mapstructure:"port"`
		Log  struct {
			Path           string `mapstructure:"path"`
			Level          string `mapstructure:"level"`
			MaxSize        int    `mapstructure:"maxSize"`
			MaxBackups     int    `mapstructure:"maxBackups"`
			MaxAge         int    `mapstructure:"maxAge"`
			EnableFullPath bool   `mapstructure:"enableFullPath"`
		}
		Db struct {
			Badger *struct {
				Path string `mapstructure:"path"`
			} `mapstructure:"badger"`
			Sqlite *struct {
				Path string `mapstructure:"path"`
			} `mapstructure:"sqlite"`
		}
	}

	App struct {
		Token struct {
			Type   string `mapstructure:"type"`
			Secret string `mapstructure:"secret" json:"-"`
			Key    string `mapstructure:"key" json:"-"`
		}
	}

	Esxi struct {
		Name                string   `mapstructure:"name"`
		Host                string   `mapstructure:"host"`
		Port                int      `mapstructure:"port"`
		Username            string   `mapstructure:"username"`
		Password            string   `mapstructure:"password" json:"-"`
		VerifySSL           bool     `mapstructure:"verifySSL"`
		ReuseSession        bool     `mapstructure:"reuseSession"`
		ScanInterval        int      `mapstructure:"scanInterval"`
		ApiTimeout          int      `mapstructure:"apiTimeout"`
		MonitoredConditions []string `mapstructure:"monitoredConditions"`
		StateKeys           struct {
			Datastore string `mapstructure:"datastore"`
			Host      string `mapstructure:"host"`
			License   string `mapstructure:"license"`
			VM        string `mapstructure:"vm"`
		} `mapstructure:"stateKeys"`
		Task struct {
			Timeout  int `mapstructure:"timeout"`
			Interval int `mapstructure:"interval"`
		} `mapstructure:"task"`
		License struct {
			Enforce bool `mapstructure:"enforce"`
		} `mapstructure:"license"`
		RoutineCount struct {
			Poll    int `mapstructure:"poll"`
			Command int `mapstructure:"command"`
		} `mapstructure:"routineCount"`
	}

	Notify struct {
		Callback *protocol.CallbackReq `mapstructure:"callback"`
		Telegram *struct {
			Token  string `mapstructure:"token" json:"-"`
			ChatID int64  `mapstructure:"chatId"`
		} `mapstructure:"telegram"`
		History bool `mapstructure:"history"`
	}

	Metrics struct {
		Enable bool `mapstructure:"enable"`
	}
}

var G Config

func Setup() {
	testing.Init()
	configDir := flag.String("config", ".", "config file dir")
	flag.Parse()
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.AddConfigPath("$HOME/.esxi-stats")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath(*configDir)
	SetDefaults()
	Reload()

	b, _ := json.Marshal(G)
	log.Println("loaded config: ", string(b))
}

func SetDefaults() {
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.port", 8829)
	viper.SetDefault("server.log.level", "info")
	viper.SetDefault("app.token.type", "jwt")
	viper.SetDefault("esxi.name", "ESXi")
	viper.SetDefault("esxi.port", 443)
	viper.SetDefault("esxi.verifySSL", false)
	viper.SetDefault("esxi.scanInterval", 60)
	viper.SetDefault("esxi.apiTimeout", 60)
	viper.SetDefault("esxi.monitoredConditions", []string{"hosts"})
	viper.SetDefault("esxi.stateKeys.datastore", "free_space_gb")
	viper.SetDefault("esxi.stateKeys.host", "vms")
	viper.SetDefault("esxi.stateKeys.license", "status")
	viper.SetDefault("esxi.stateKeys.vm", "state")
	viper.SetDefault("esxi.task.timeout", 300)
	viper.SetDefault("esxi.task.interval", 2)
	viper.SetDefault("esxi.license.enforce", true)
	viper.SetDefault("esxi.routineCount.poll", 1)
	viper.SetDefault("esxi.routineCount.command", 10)
	viper.SetDefault("metrics.enable", true)
}

func Reload() {
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal("failed to read config: ", err)
		return
	}
	err = viper.Unmarshal(&G)
	if err != nil {
		panic(err)
	}
}
