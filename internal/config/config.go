// Package config lee la configuración del servicio desde env (.env incluido)
// y, opcionalmente, un archivo healthdir.{yaml,json,toml}.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

// Backends del record store.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendSupabase = "supabase"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	AppName   string

	StoreBackend string
	DBDSN        string
	BadgerPath   string

	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseAnonKey        string
	// DevAuth: sin Supabase, acepta también X-Debug-User-Role.
	DevAuth bool

	RedisURL       string
	CORSOrigins    []string
	MetricsEnabled bool

	AlertPollInterval time.Duration
	AlertTimeout      time.Duration
	AlertToneDuration time.Duration
	AlertToneAsset    string
	AlertToneCommand  string
	AlertResyncSpec   string

	PushoverAPIToken string
	PushoverUserKey  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "health-directory")

	v.SetDefault("STORE_BACKEND", "")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("BADGER_PATH", "./data/badger")

	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_SERVICE_ROLE_KEY", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("DEV_AUTH", false)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)

	v.SetDefault("ALERT_POLL_INTERVAL", "1s")
	v.SetDefault("ALERT_TIMEOUT", "8s")
	v.SetDefault("ALERT_TONE_DURATION", "2s")
	v.SetDefault("ALERT_TONE_ASSET", "/static/alarm.mp3")
	v.SetDefault("ALERT_TONE_COMMAND", "")
	v.SetDefault("ALERT_RESYNC_SPEC", "@every 5m")

	v.SetDefault("PUSHOVER_API_TOKEN", "")
	v.SetDefault("PUSHOVER_USER_KEY", "")
}

// Load carga .env (si existe), el archivo de config y las variables de entorno;
// env manda sobre el archivo. configFile vacío => busca healthdir.* en ".".
func Load(configFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("healthdir")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return FromViper(v)
}

// FromViper arma el Config desde una instancia ya cargada (tests).
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Port:      strings.TrimSpace(v.GetString("PORT")),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		AppName:   v.GetString("APP_NAME"),

		StoreBackend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DBDSN:        strings.TrimSpace(v.GetString("DB_DSN")),
		BadgerPath:   strings.TrimSpace(v.GetString("BADGER_PATH")),

		SupabaseURL:            strings.TrimSpace(v.GetString("SUPABASE_URL")),
		SupabaseServiceRoleKey: strings.TrimSpace(v.GetString("SUPABASE_SERVICE_ROLE_KEY")),
		SupabaseAnonKey:        strings.TrimSpace(v.GetString("SUPABASE_ANON_KEY")),
		DevAuth:                v.GetBool("DEV_AUTH"),

		RedisURL:       strings.TrimSpace(v.GetString("REDIS_URL")),
		CORSOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),

		AlertToneAsset:   strings.TrimSpace(v.GetString("ALERT_TONE_ASSET")),
		AlertToneCommand: strings.TrimSpace(v.GetString("ALERT_TONE_COMMAND")),
		AlertResyncSpec:  strings.TrimSpace(v.GetString("ALERT_RESYNC_SPEC")),

		PushoverAPIToken: strings.TrimSpace(v.GetString("PUSHOVER_API_TOKEN")),
		PushoverUserKey:  strings.TrimSpace(v.GetString("PUSHOVER_USER_KEY")),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ALERT_POLL_INTERVAL", &c.AlertPollInterval},
		{"ALERT_TIMEOUT", &c.AlertTimeout},
		{"ALERT_TONE_DURATION", &c.AlertToneDuration},
	}
	for _, d := range durations {
		val, err := time.ParseDuration(strings.TrimSpace(v.GetString(d.key)))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.key, err)
		}
		*d.dst = val
	}

	// Sin backend explícito: DB_DSN => postgres, si no memoria.
	if c.StoreBackend == "" {
		if c.DBDSN != "" {
			c.StoreBackend = BackendPostgres
		} else {
			c.StoreBackend = BackendMemory
		}
	}

	return c, c.Validate()
}

// Validate rechaza combinaciones inconsistentes.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalidConfig)
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: STORE_BACKEND=postgres requires DB_DSN", ErrInvalidConfig)
		}
	case BackendBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("%w: STORE_BACKEND=badger requires BADGER_PATH", ErrInvalidConfig)
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceRoleKey == "" {
			return fmt.Errorf("%w: STORE_BACKEND=supabase requires SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend)
	}

	if c.AlertPollInterval <= 0 || c.AlertTimeout <= 0 || c.AlertToneDuration <= 0 {
		return fmt.Errorf("%w: alert durations must be positive", ErrInvalidConfig)
	}
	if c.AlertTimeout < c.AlertPollInterval {
		return fmt.Errorf("%w: ALERT_TIMEOUT must be >= ALERT_POLL_INTERVAL", ErrInvalidConfig)
	}
	if c.PushoverUserKey != "" && c.PushoverAPIToken == "" {
		return fmt.Errorf("%w: PUSHOVER_USER_KEY requires PUSHOVER_API_TOKEN", ErrInvalidConfig)
	}
	return nil
}

// AuthEnabled: con URL y anon key se verifican tokens; si no, modo dev.
func (c Config) AuthEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
