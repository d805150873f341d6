package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application settings.
type Config struct {
	ServerAddress   string
	DatabaseConfig  DatabaseConfig
	RedisConfig     RedisConfig
	MQTTConfig      MQTTConfig
	ProxiwashConfig ProxiwashConfig
}

// DatabaseConfig selects the preference store backend.
type DatabaseConfig struct {
	Driver       string // postgres | sqlite
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SQLitePath   string
	MaxIdleConns int
	MaxOpenConns int
}

// RedisConfig holds the watch-list store connection.
type RedisConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	DB       int
	PoolSize int
}

type MQTTConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
}

// ProxiwashConfig drives the watch engine.
type ProxiwashConfig struct {
	Laundromat        string
	DataURL           string
	PollInterval      time.Duration
	WatchListKey      string
	SnapshotTopic     string
	NotificationTopic string
	PrankMode         string
	PrankMonth        int
	PrankDay          int
}

var laundromatURLs = map[string]string{
	"washinsa": "https://etud.insa-toulouse.fr/~amicale_app/v2/washinsa/washinsa_data.json",
	"tripodeB": "https://etud.insa-toulouse.fr/~amicale_app/v2/washinsa/tripode_b_data.json",
}

// LoadConfig reads the settings from environment variables.
func LoadConfig() *Config {
	databaseConfig := DatabaseConfig{
		Driver:       getEnv("DB_DRIVER", "postgres"),
		Host:         getEnv("POSTGRES_HOST", "localhost"),
		Port:         getEnv("POSTGRES_PORT", "5432"),
		User:         getEnv("POSTGRES_USER", "postgres"),
		Password:     getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:       getEnv("POSTGRES_DB", "washwatch"),
		SQLitePath:   getEnv("SQLITE_PATH", "washwatch.db"),
		MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
	}

	redisConfig := RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Username: getEnv("REDIS_USERNAME", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
		PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
	}

	mqttConfig := MQTTConfig{
		BrokerURL: getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		ClientID:  getEnv("MQTT_CLIENT_ID", "washwatch"),
		Username:  getEnv("MQTT_USERNAME", ""),
		Password:  getEnv("MQTT_PASSWORD", ""),
	}

	laundromat := getEnv("PROXIWASH_LAUNDROMAT", "washinsa")
	proxiwashConfig := ProxiwashConfig{
		Laundromat:        laundromat,
		DataURL:           getEnv("PROXIWASH_DATA_URL", LaundromatURL(laundromat)),
		PollInterval:      getEnvAsDuration("PROXIWASH_POLL_INTERVAL", 10*time.Second),
		WatchListKey:      getEnv("PROXIWASH_WATCHLIST_KEY", "proxiwashWatchedMachines"),
		SnapshotTopic:     getEnv("PROXIWASH_SNAPSHOT_TOPIC", "proxiwash/"+laundromat+"/snapshot"),
		NotificationTopic: getEnv("PROXIWASH_NOTIFICATION_TOPIC", "proxiwash/notifications"),
		PrankMode:         getEnv("PROXIWASH_PRANK", "auto"),
		PrankMonth:        getEnvAsInt("PROXIWASH_PRANK_MONTH", 4),
		PrankDay:          getEnvAsInt("PROXIWASH_PRANK_DAY", 1),
	}

	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":3000"),
		DatabaseConfig:  databaseConfig,
		RedisConfig:     redisConfig,
		MQTTConfig:      mqttConfig,
		ProxiwashConfig: proxiwashConfig,
	}
}

// LaundromatURL returns the data URL of a known laundromat, or the washinsa
// one when the name is unknown.
func LaundromatURL(name string) string {
	if url, ok := laundromatURLs[name]; ok {
		return url
	}
	return laundromatURLs["washinsa"]
}

// getEnv returns the variable or the default when it is unset.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt parses the variable as an int, falling back to the default.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func (p DatabaseConfig) BuildDSN() string {
	if p.Driver == "sqlite" {
		return p.SQLitePath
	}
	return "host=" + p.Host +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DBName +
		" port=" + p.Port +
		" sslmode=disable"
}
