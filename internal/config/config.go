// Package config loads the geo query service configuration from CITYLENS_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type RedisCfg struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	TTL          time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaCfg struct {
	Enabled             bool
	Brokers             []string
	Topic               string
	GroupID             string
	InitialOffsetOldest bool
	DedupeSize          int
}

type Config struct {
	Addr            string
	BasePath        string
	LogLevel        string
	LogConsole      bool
	LogSampleN      int
	ShutdownTimeout time.Duration

	// RegionFile optionally seeds the registry from a YAML file on top of
	// (or instead of) the built-in regions.
	RegionFile     string
	BuiltinRegions bool

	// LookupLRUSize caps the in-process lookup cache; KeyPrecision is the
	// number of decimal places coordinates are rounded to when building
	// cache keys (6 decimals is ~0.1 m, finer than any map client sends).
	LookupLRUSize int
	KeyPrecision  int

	Redis RedisCfg
	Kafka KafkaCfg
}

func FromEnv() Config {
	return Config{
		Addr:            getenv("CITYLENS_ADDR", ":8090"),
		BasePath:        getenv("CITYLENS_BASE_PATH", ""),
		LogLevel:        getenv("CITYLENS_LOG_LEVEL", "info"),
		LogConsole:      getbool("CITYLENS_LOG_CONSOLE", false),
		LogSampleN:      getint("CITYLENS_LOG_SAMPLE_N", 0),
		ShutdownTimeout: getduration("CITYLENS_SHUTDOWN_TIMEOUT", 10*time.Second),

		RegionFile:     getenv("CITYLENS_REGION_FILE", ""),
		BuiltinRegions: getbool("CITYLENS_BUILTIN_REGIONS", true),

		LookupLRUSize: getint("CITYLENS_LOOKUP_LRU_SIZE", 1024),
		KeyPrecision:  getint("CITYLENS_KEY_PRECISION", 6),

		Redis: RedisCfg{
			Enabled:      getbool("CITYLENS_REDIS_ENABLED", false),
			Addr:         getenv("CITYLENS_REDIS_ADDR", "localhost:6379"),
			Password:     getenv("CITYLENS_REDIS_PASSWORD", ""),
			DB:           getint("CITYLENS_REDIS_DB", 0),
			TTL:          getduration("CITYLENS_REDIS_TTL", 60*time.Second),
			DialTimeout:  getduration("CITYLENS_REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  getduration("CITYLENS_REDIS_READ_TIMEOUT", time.Second),
			WriteTimeout: getduration("CITYLENS_REDIS_WRITE_TIMEOUT", time.Second),
		},

		Kafka: KafkaCfg{
			Enabled:             getbool("CITYLENS_KAFKA_ENABLED", false),
			Brokers:             splitCSV(getenv("CITYLENS_KAFKA_BROKERS", "localhost:9092")),
			Topic:               getenv("CITYLENS_KAFKA_TOPIC", "region-updates"),
			GroupID:             getenv("CITYLENS_KAFKA_GROUP_ID", "citylens-geo"),
			InitialOffsetOldest: getbool("CITYLENS_KAFKA_OFFSET_OLDEST", true),
			DedupeSize:          getint("CITYLENS_KAFKA_DEDUPE_SIZE", 4096),
		},
	}
}

// Validate rejects configurations the service cannot start with. It reports
// the first problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is required")
	}
	if c.BasePath != "" {
		if !strings.HasPrefix(c.BasePath, "/") {
			return fmt.Errorf("base path must start with '/' (got %q)", c.BasePath)
		}
		if strings.HasSuffix(c.BasePath, "/") {
			return fmt.Errorf("base path must not end with '/' (got %q)", c.BasePath)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive (got %s)", c.ShutdownTimeout)
	}
	if c.LookupLRUSize <= 0 {
		return fmt.Errorf("lookup LRU size must be positive (got %d)", c.LookupLRUSize)
	}
	if c.KeyPrecision < 0 || c.KeyPrecision > 12 {
		return fmt.Errorf("key precision must be in [0,12] (got %d)", c.KeyPrecision)
	}
	if c.Redis.Enabled {
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("redis enabled but no address configured")
		}
		if c.Redis.TTL < 0 {
			return fmt.Errorf("redis TTL must not be negative (got %s)", c.Redis.TTL)
		}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka enabled but no brokers configured")
		}
		if strings.TrimSpace(c.Kafka.Topic) == "" {
			return fmt.Errorf("kafka enabled but no topic configured")
		}
		if strings.TrimSpace(c.Kafka.GroupID) == "" {
			return fmt.Errorf("kafka enabled but no group id configured")
		}
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
