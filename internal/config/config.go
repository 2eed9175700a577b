package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SchedulerConfig struct {
	Disabled bool          `mapstructure:"disabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Addr      string          `mapstructure:"addr"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	SeedPlans bool            `mapstructure:"seed_plans"`
}

// Load reads billingmock.yaml (optional) and BILLINGMOCK_* env overrides.
// A .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("addr", ":12111")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:billingmock.db?cache=shared")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("scheduler.interval", time.Minute)
	v.SetDefault("seed_plans", true)

	v.SetConfigName("billingmock")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/billingmock")

	v.SetEnvPrefix("BILLINGMOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
