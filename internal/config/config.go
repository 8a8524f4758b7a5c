package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreBackendPostgres  = "postgres"
	StoreBackendFirestore = "firestore"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Store         Store         `mapstructure:",squash"`
	Firebase      Firebase      `mapstructure:",squash"`
	Redis         Redis         `mapstructure:",squash"`
	Reporting     Reporting     `mapstructure:",squash"`
	SummaryWarmup SummaryWarmup `mapstructure:",squash"`
	Cors          Cors          `mapstructure:",squash"`
	SecretKey     string        `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

type App struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	TokenTTL              time.Duration `mapstructure:"token_ttl"`
	AllowSelfRegistration bool          `mapstructure:"allow_self_registration"`
	LoginRatePerMinute    int           `mapstructure:"login_rate_per_minute"`
	LoginRateBurst        int           `mapstructure:"login_rate_burst"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

type Store struct {
	Backend string `mapstructure:"store_backend"`
}

type Firebase struct {
	Enabled         bool   `mapstructure:"firebase_enabled"`
	ProjectID       string `mapstructure:"firebase_project_id"`
	CredentialsFile string `mapstructure:"firebase_credentials_file"`
}

type Redis struct {
	Enabled  bool          `mapstructure:"redis_enabled"`
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	TTL      time.Duration `mapstructure:"summary_cache_ttl"`
}

type Reporting struct {
	SettledStatuses []string       `mapstructure:"settled_statuses"`
	AgendaDays      int            `mapstructure:"agenda_days"`
	Timezone        string         `mapstructure:"timezone"`
	Location        *time.Location `mapstructure:"-"`
}

type SummaryWarmup struct {
	CronSchedule string `mapstructure:"summary_warmup_cron"`
	Enabled      bool   `mapstructure:"summary_warmup_enabled"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/insectcontrol?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("ALLOW_SELF_REGISTRATION", true)
	viper.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	viper.SetDefault("LOGIN_RATE_BURST", 5)
	viper.SetDefault("TRUSTED_PROXIES", "")

	viper.SetDefault("STORE_BACKEND", StoreBackendPostgres)

	viper.SetDefault("FIREBASE_ENABLED", false)
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SUMMARY_CACHE_TTL", "10m")

	viper.SetDefault("SETTLED_STATUSES", "pago")
	viper.SetDefault("AGENDA_DAYS", 14)
	viper.SetDefault("TIMEZONE", "America/Sao_Paulo")

	viper.SetDefault("SUMMARY_WARMUP_CRON", "0 5 * * *") // Todos os dias às 5h da manhã
	viper.SetDefault("SUMMARY_WARMUP_ENABLED", false)

	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize preenche campos derivados e valida combinações inválidas
func (c *Config) normalize() error {
	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case StoreBackendPostgres:
	case StoreBackendFirestore:
		if !c.Firebase.Enabled {
			return fmt.Errorf("STORE_BACKEND=firestore exige FIREBASE_ENABLED=true")
		}
	default:
		return fmt.Errorf("STORE_BACKEND inválido: %q", c.Store.Backend)
	}

	c.Reporting.SettledStatuses = trimAll(c.Reporting.SettledStatuses)
	c.Cors.AllowedOrigins = trimAll(c.Cors.AllowedOrigins)
	c.Auth.TrustedProxies = trimAll(c.Auth.TrustedProxies)

	if c.Reporting.AgendaDays <= 0 {
		c.Reporting.AgendaDays = 14
	}

	c.Reporting.Location = time.Local
	if c.Reporting.Timezone != "" {
		loc, err := time.LoadLocation(c.Reporting.Timezone)
		if err != nil {
			logrus.Warnf("Fuso horário inválido: %s, usando horário local", c.Reporting.Timezone)
		} else {
			c.Reporting.Location = loc
		}
	}

	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}

	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
