package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"time"
)

type Config struct {
	Env        string `yaml:"env" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DBUser     string `yaml:"db_user" env-required:"true"`
	DBPassword string `yaml:"db_password" env-required:"false"`
	DBHost     string `yaml:"db_host" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env-default:"3306"`
	DBName     string `yaml:"db_name" env-required:"true"`
	ParseTime  bool   `yaml:"parse_time" env-default:"true"`

	Scheduling Scheduling `yaml:"scheduling"`

	AdminLogin string `yaml:"admin_login"`
	AdminPass  string `yaml:"admin_pass"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:4002"`
	Timeout     time.Duration `yaml:"timeout"  env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

type Scheduling struct {
	// Bonus added to the relation weight of a material's default device
	// or mold. A preference hint, not a hard override.
	DefaultResourceBonus int `yaml:"default_resource_bonus" env-default:"20"`
	// Cron spec for the sweep that escalates the priority of plans
	// owning overdue tasks.
	OverdueSweepSpec string `yaml:"overdue_sweep_spec" env-default:"@every 5m"`
}

func MustConfig() *Config {
	var cfg Config

	configPath := "./config/local.yaml"

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
