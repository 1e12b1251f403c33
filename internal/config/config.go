package config

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	JWT    JWTConfig    `yaml:"jwt"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		MySQL:  MySQLConfig{DSN: "root:root@tcp(127.0.0.1:3306)/commune?charset=utf8mb4&parseTime=True"},
		Redis:  RedisConfig{Addr: "127.0.0.1:6379"},
		JWT:    JWTConfig{Secret: "secret-key", TTL: 30 * time.Minute},
		Kafka:  KafkaConfig{Topic: "commune.followers"},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides for deploy-time secrets. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("COMMUNE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COMMUNE_MYSQL_DSN"); v != "" {
		cfg.MySQL.DSN = v
	}
	if v := os.Getenv("COMMUNE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("COMMUNE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("COMMUNE_JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}

	return cfg, nil
}
