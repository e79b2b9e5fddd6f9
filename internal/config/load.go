package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/spark_cart/internal/textgen"
	"github.com/Skotchmaster/spark_cart/pkg/config"
	pkgdb "github.com/Skotchmaster/spark_cart/pkg/db"
)

const (
	RealtimeLocal    = "local"
	RealtimePostgres = "postgres"
	RealtimeKafka    = "kafka"

	TextgenHTTP   = "http"
	TextgenOpenAI = "openai"
	TextgenNone   = "none"
)

type ServiceConfig struct {
	config.Config

	RealtimeSource string
	// InstanceID tells replicas apart, e.g. in kafka consumer group names.
	InstanceID     string
	VoteTopic      string
	CartTopic      string

	TextgenProvider string
	TextgenURL      string
	OpenAIKey       string
	OpenAIModel     string
	TextgenTimeout  time.Duration

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CSRFEnabled  bool
	CookieSecure bool
}

// LoadEnv reads .env when present; the process environment wins over it.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("notice: .env not loaded: %v", err)
	}
}

func Load() ServiceConfig {
	LoadEnv()
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	sc := ServiceConfig{
		Config: cfg,

		RealtimeSource: config.MustOneOf(config.EnvDefault("REALTIME_SOURCE", RealtimeLocal), "REALTIME_SOURCE",
			RealtimeLocal, RealtimePostgres, RealtimeKafka),
		InstanceID: config.EnvDefault("INSTANCE_ID", hostname()),
		VoteTopic:  config.EnvDefault("VOTE_TOPIC", "vote_events"),
		CartTopic:  config.EnvDefault("CART_TOPIC", "cart_events"),

		TextgenProvider: config.MustOneOf(config.EnvDefault("TEXTGEN_PROVIDER", TextgenNone), "TEXTGEN_PROVIDER",
			TextgenHTTP, TextgenOpenAI, TextgenNone),
		TextgenURL:     os.Getenv("TEXTGEN_URL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    config.EnvDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		TextgenTimeout: config.EnvDurationDefault("TEXTGEN_TIMEOUT", textgen.DefaultTimeout),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    config.EnvDefault("ES_INDEX", "cart_items"),

		CSRFEnabled:  envBool("CSRF_ENABLED", true),
		CookieSecure: envBool("COOKIE_SECURE", false),
	}

	switch sc.TextgenProvider {
	case TextgenHTTP:
		config.MustNonEmpty(sc.TextgenURL, "TEXTGEN_URL")
	case TextgenOpenAI:
		config.MustNonEmpty(sc.OpenAIKey, "OPENAI_API_KEY")
	}
	if sc.RealtimeSource == RealtimeKafka && len(sc.KafkaBrokers) == 0 {
		log.Fatalf("REALTIME_SOURCE=kafka needs KAFKA_BROKERS")
	}
	if sc.RealtimeSource == RealtimePostgres && pkgdb.IsSQLite(sc.DatabaseURL) {
		log.Fatalf("REALTIME_SOURCE=postgres needs a postgres DATABASE_URL")
	}

	return sc
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "local"
	}
	return h
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
