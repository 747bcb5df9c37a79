package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	EnvFileLoaded  bool
	MetricsAddr    string
	TelegramConfig TelegramConfig
	SupabaseConfig SupabaseConfig
	PostgresConfig PostgresConfig
	KafkaConfig    KafkaConfig
	TracingConfig  TracingConfig
	NotesConfig    NotesConfig
}

type TelegramConfig struct {
	TokenNotesBot string
}

type SupabaseConfig struct {
	URL string
	Key string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	Enabled           bool
	Brokers           []string
	Topic             string
	GroupID           string
	NumPartitions     int
	ReplicationFactor int
}

type TracingConfig struct {
	Endpoint string
}

type NotesConfig struct {
	SeedFile  string
	EmptyEdit string
}

// LoadConfig reads the environment, after loading .env when present.
// It checks only what every binary needs; see ValidateBot and ValidateJournal.
func LoadConfig() (*Config, error) {
	envFileLoaded := godotenv.Load() == nil

	kafkaEnabled, err := getBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}
	partitions, err := getInt("KAFKA_PARTITIONS", 1)
	if err != nil {
		return nil, err
	}
	replication, err := getInt("KAFKA_REPLICATION_FACTOR", 1)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Env:           getEnv("APP_ENV", "development"),
		EnvFileLoaded: envFileLoaded,
		MetricsAddr:   getEnv("METRICS_ADDR", ":8080"),
		TelegramConfig: TelegramConfig{
			TokenNotesBot: getEnv("TOKEN_NOTES_BOT", ""),
		},
		SupabaseConfig: SupabaseConfig{
			URL: getEnv("SUPABASE_URL", ""),
			Key: getEnv("SUPABASE_KEY", ""),
		},
		PostgresConfig: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "user"),
			Password: getEnv("POSTGRES_PASSWORD", "password"),
			DBName:   getEnv("POSTGRES_DB", "dbname"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		KafkaConfig: KafkaConfig{
			Enabled:           kafkaEnabled,
			Brokers:           splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:             getEnv("KAFKA_TOPIC", "note-events"),
			GroupID:           getEnv("KAFKA_GROUP_ID", "note-journal"),
			NumPartitions:     partitions,
			ReplicationFactor: replication,
		},
		TracingConfig: TracingConfig{
			Endpoint: getEnv("TRACING_ENDPOINT", ""),
		},
		NotesConfig: NotesConfig{
			SeedFile:  getEnv("NOTES_SEED_FILE", ""),
			EmptyEdit: getEnv("NOTES_EMPTY_EDIT", "delete"),
		},
	}

	switch config.NotesConfig.EmptyEdit {
	case "delete", "keep":
	default:
		return nil, fmt.Errorf("NOTES_EMPTY_EDIT must be 'delete' or 'keep', got '%s'", config.NotesConfig.EmptyEdit)
	}

	return config, nil
}

func (c *Config) ValidateBot() error {
	if c.TelegramConfig.TokenNotesBot == "" {
		return fmt.Errorf("TOKEN_NOTES_BOT is required")
	}
	if c.SupabaseConfig.URL == "" || c.SupabaseConfig.Key == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required")
	}
	if c.KafkaConfig.Enabled && len(c.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	return nil
}

func (c *Config) ValidateJournal() error {
	if len(c.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	return nil
}

func (p PostgresConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
