package config

import (
	"os"
	"strings"
	"time"

	"github.com/l3uddz/iconkit/logger"
	stringutils "github.com/l3uddz/iconkit/utils/strings"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

/* Struct */

type Configuration struct {
	Environment string
	CacheDir    string `mapstructure:"cache_dir"`
	DebugDir    string `mapstructure:"debug_dir"`
	Database    Database
	Timeouts    Timeouts
	Upload      Upload
	Scrape      Scrape
	Server      Server
	Search      Search
	Doppler     Doppler
	Providers   map[string]*Provider
}

type Database struct {
	Driver string
	DSN    string `mapstructure:"dsn"`
}

type Timeouts struct {
	Git    time.Duration
	File   time.Duration
	Scrape time.Duration
}

type Upload struct {
	BatchSize int `mapstructure:"batch_size"`
	Interval  time.Duration
}

type Scrape struct {
	Concurrency int
}

type Server struct {
	Listen      string
	CorsOrigins []string `mapstructure:"cors_origins"`
}

type Search struct {
	Preset    string
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`
}

type Doppler struct {
	Token   string
	Project string
	Config  string
	Secret  string
}

/* Vars */

var (
	Config     *Configuration
	configPath string

	log = logger.GetLogger("cfg")
)

/* Public */

func Init(configFilePath string) error {
	v := viper.New()
	setDefaults(v)

	// environment overrides, e.g. ICONKIT_DATABASE_DSN
	v.SetEnvPrefix("iconkit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// a missing config file falls back to defaults + environment
	if _, err := os.Stat(configFilePath); err == nil {
		v.SetConfigFile(configFilePath)
		if err := v.ReadInConfig(); err != nil {
			return errors.WithMessagef(err, "failed reading config file: %q", configFilePath)
		}
	} else {
		log.Warnf("Config file not found, using defaults: %q", configFilePath)
	}

	cfg, err := decode(v)
	if err != nil {
		return err
	}

	Config = cfg
	configPath = configFilePath
	return nil
}

// Load decodes configuration from an already populated viper instance.
func Load(v *viper.Viper) (*Configuration, error) {
	setDefaults(v)
	return decode(v)
}

func ShowUsing() {
	log.Infof("Using %s = %q", stringutils.StringLeftJust("CONFIG", " ", 10), configPath)
	log.Infof("Using %s = %s", stringutils.StringLeftJust("ENV", " ", 10), Config.Environment)
}

func (c *Configuration) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvironmentProduction)
}

/* Private */

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvironmentDevelopment)
	v.SetDefault("cache_dir", os.TempDir())
	v.SetDefault("debug_dir", "debug")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "iconkit.db")

	v.SetDefault("timeouts.git", 5*time.Minute)
	v.SetDefault("timeouts.file", 30*time.Second)
	v.SetDefault("timeouts.scrape", 15*time.Minute)

	v.SetDefault("upload.batch_size", 1000)
	v.SetDefault("upload.interval", 100*time.Millisecond)

	v.SetDefault("scrape.concurrency", 0)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("search.preset", "default")
	v.SetDefault("search.cache_ttl", 5*time.Minute)
	v.SetDefault("search.cache_size", 64)

	// env overrides only reach keys viper knows about
	v.SetDefault("doppler.token", "")
	v.SetDefault("doppler.project", "")
	v.SetDefault("doppler.config", "")
	v.SetDefault("doppler.secret", "ICON_COUNT")
}

func decode(v *viper.Viper) (*Configuration, error) {
	cfg := &Configuration{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WithMessage(err, "failed decoding config")
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*Provider)
	}

	if cfg.Upload.BatchSize < 1 {
		return nil, errors.New("upload.batch_size must be at least 1")
	}

	return cfg, nil
}
