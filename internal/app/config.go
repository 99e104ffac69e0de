package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	appdb "github.com/yungbote/mapping-manager/internal/data/db"
	"github.com/yungbote/mapping-manager/internal/observability"
	"github.com/yungbote/mapping-manager/internal/platform/objectstore"
)

type Config struct {
	LogMode  string
	HTTPAddr string

	DB              appdb.Config
	VocabularyTable string
	VocabularyTTL   time.Duration
	MigrateOnStart  bool

	RedisAddr   string
	RedisPrefix string

	MetricsEnabled bool
	MetricsAddr    string

	Otel observability.OtelConfig

	Export       objectstore.Config
	ExportPrefix string

	AllowedOrigins []string
}

// envAliases keeps the deployment's existing variable names working alongside the derived
// KEY_NAME form.
var envAliases = map[string]string{
	"postgres.host":     "POSTGRES_HOST",
	"postgres.port":     "POSTGRES_PORT",
	"postgres.user":     "POSTGRES_USER",
	"postgres.password": "POSTGRES_PASSWORD",
	"postgres.name":     "POSTGRES_NAME",
	"redis.addr":        "REDIS_ADDR",
	"log.mode":          "LOG_MODE",
	"otel.endpoint":     "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otel.headers":      "OTEL_EXPORTER_OTLP_HEADERS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.mode", "development")
	v.SetDefault("http.addr", "0.0.0.0:7777")
	v.SetDefault("http.allowed_origins", []string{})

	v.SetDefault("db.driver", appdb.DriverPostgres)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "postgres")
	v.SetDefault("sqlite.path", "mapping.db")

	v.SetDefault("vocabulary.table", "")
	v.SetDefault("vocabulary.cache_ttl", "10m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.prefix", "mapping:target:")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.exporter", "stdout")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("service.name", "mapping-manager")
	v.SetDefault("service.env", "development")
	v.SetDefault("service.version", "dev")

	v.SetDefault("export.driver", objectstore.DriverFS)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.prefix", "audit")
	v.SetDefault("export.s3_region", "")
	v.SetDefault("export.s3_endpoint", "")
	v.SetDefault("export.s3_path_style", false)
	v.SetDefault("export.gcs_credentials_file", "")

	v.SetDefault("migrate.on_start", true)
}

// NewViper returns a viper instance with defaults and environment binding applied. Nested
// keys read from upper-cased env names with dots replaced by underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		_ = v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
	return v
}

// LoadConfig reads the optional config file into v and resolves the typed configuration.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path := strings.TrimSpace(configFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("db.driver")))
	switch driver {
	case appdb.DriverPostgres, appdb.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("db.driver must be %q or %q, got %q", appdb.DriverPostgres, appdb.DriverSQLite, driver)
	}

	vocabTable := strings.TrimSpace(v.GetString("vocabulary.table"))
	if vocabTable == "" {
		vocabTable = defaultVocabularyTable(driver)
	}
	if err := appdb.ValidateTableName(vocabTable); err != nil {
		return Config{}, fmt.Errorf("vocabulary.table: %w", err)
	}

	exporter := strings.ToLower(strings.TrimSpace(v.GetString("otel.exporter")))
	endpoint := strings.TrimSpace(v.GetString("otel.endpoint"))
	switch exporter {
	case "stdout":
		endpoint = ""
	case "otlp":
		if endpoint == "" {
			return Config{}, errors.New("otel.exporter=otlp requires otel.endpoint")
		}
	default:
		return Config{}, fmt.Errorf("otel.exporter must be stdout or otlp, got %q", exporter)
	}

	return Config{
		LogMode:  v.GetString("log.mode"),
		HTTPAddr: v.GetString("http.addr"),

		DB: appdb.Config{
			Driver:           driver,
			DSN:              v.GetString("db.dsn"),
			PostgresHost:     v.GetString("postgres.host"),
			PostgresPort:     v.GetString("postgres.port"),
			PostgresUser:     v.GetString("postgres.user"),
			PostgresPassword: v.GetString("postgres.password"),
			PostgresName:     v.GetString("postgres.name"),
			SQLitePath:       v.GetString("sqlite.path"),
			MaxOpenConns:     v.GetInt("db.max_open_conns"),
			MaxIdleConns:     v.GetInt("db.max_idle_conns"),
		},
		VocabularyTable: vocabTable,
		VocabularyTTL:   v.GetDuration("vocabulary.cache_ttl"),
		MigrateOnStart:  v.GetBool("migrate.on_start"),

		RedisAddr:   strings.TrimSpace(v.GetString("redis.addr")),
		RedisPrefix: v.GetString("redis.prefix"),

		MetricsEnabled: v.GetBool("metrics.enabled"),
		MetricsAddr:    v.GetString("metrics.addr"),

		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("service.name"),
			Environment: v.GetString("service.env"),
			Version:     v.GetString("service.version"),
			Endpoint:    endpoint,
			Insecure:    v.GetBool("otel.insecure"),
			SampleRatio: v.GetFloat64("otel.sample_ratio"),
			Headers:     v.GetString("otel.headers"),
		},

		Export: objectstore.Config{
			Driver:             v.GetString("export.driver"),
			Dir:                v.GetString("export.dir"),
			Bucket:             v.GetString("export.bucket"),
			S3Region:           v.GetString("export.s3_region"),
			S3Endpoint:         v.GetString("export.s3_endpoint"),
			S3PathStyle:        v.GetBool("export.s3_path_style"),
			GCSCredentialsFile: v.GetString("export.gcs_credentials_file"),
		},
		ExportPrefix: v.GetString("export.prefix"),

		AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
	}, nil
}

func defaultVocabularyTable(driver string) string {
	if driver == appdb.DriverSQLite {
		return "vocab_concept"
	}
	return "omop_vocab.concept"
}
