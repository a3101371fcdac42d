package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Tickets  TicketsConfig  `yaml:"tickets"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type WalletConfig struct {
	StartingBalance int64  `yaml:"starting_balance"`
	Currency        string `yaml:"currency"`
}

type PricingConfig struct {
	SurgeThreshold          int     `yaml:"surge_threshold"`
	SurgeMultiplier         float64 `yaml:"surge_multiplier"`
	SurgeTTLMinutes         int     `yaml:"surge_ttl_minutes"`
	AttemptWindowMinutes    int     `yaml:"attempt_window_minutes"`
	AttemptRetentionMinutes int     `yaml:"attempt_retention_minutes"`
}

type TicketsConfig struct {
	Dir string `yaml:"dir"`
}

type WorkerConfig struct {
	SweepIntervalMinutes   int `yaml:"sweep_interval_minutes"`
	FlightsCacheTTLSeconds int `yaml:"flights_cache_ttl_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
