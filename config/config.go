package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	URL      string `yaml:"url" json:"url"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "gamestore",
		Location: "Local",
		Workdir:  "/var/gamestore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   5000,
		Secret: "dev-secret",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Name:     "gamestore.db",
		MaxConn:  50,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/gamestore/gamestore.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if v, err := cast.ToIntE(evalue); err == nil {
		f(v)
	}
}

// LoadConfig reads the YAML configuration file when present and applies
// environment overrides on top of the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			fileCfg := new(AppConfig)
			if err := yaml.Unmarshal(data, fileCfg); err == nil {
				cfg = fileCfg
			}
		}
	}

	setEnvValue("GAMESTORE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBoolValue("GAMESTORE_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("GAMESTORE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("GAMESTORE_WEB_PORT", func(v int) { cfg.Web.Port = v })
	setEnvValue("GAMESTORE_WEB_SECRET", func(v string) { cfg.Web.Secret = v })

	setEnvValue("GAMESTORE_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("GAMESTORE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("GAMESTORE_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvValue("GAMESTORE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("GAMESTORE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("GAMESTORE_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvBoolValue("GAMESTORE_DB_DEBUG", func(v bool) { cfg.Database.Debug = v })

	// DATABASE_URL selects postgres wholesale, mirroring the common
	// deployment convention.
	setEnvValue("DATABASE_URL", func(v string) {
		cfg.Database.Type = "postgres"
		cfg.Database.URL = v
	})

	setEnvValue("GAMESTORE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("GAMESTORE_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })

	return cfg
}
