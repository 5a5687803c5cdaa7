package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env       string `validate:"oneof=dev prod test"`
		Timezone  string
		LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	} `mapstructure:"app"`

	Telegram struct {
		Token       string  `validate:"required"`
		AdminIDs    []int64 `mapstructure:"admin_ids"`
		GroupID     int64   `mapstructure:"group_id"`
		PollTimeout int     `mapstructure:"poll_timeout" validate:"gte=0"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string `validate:"required"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN string `validate:"required"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Session struct {
		Backend string        `validate:"oneof=memory redis"`
		TTL     time.Duration `mapstructure:"ttl"`
	} `mapstructure:"session"`

	Redis struct {
		Addr     string
		Password string
		DB       int
	} `mapstructure:"redis"`

	WhatsApp struct {
		APIURL     string  `mapstructure:"api_url" validate:"omitempty,url"`
		InstanceID string  `mapstructure:"instance_id"`
		Token      string  `mapstructure:"token"`
		GroupID    string  `mapstructure:"group_id"`
		Recipient  string  `mapstructure:"recipient"`
		RPS        float64 `mapstructure:"rps" validate:"gte=0"`
	} `mapstructure:"whatsapp"`

	Bot struct {
		StrictMatching bool `mapstructure:"strict_matching"`
	} `mapstructure:"bot"`
}

// Location парсит app.timezone, по умолчанию UTC.
func (c Config) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Dushanbe")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", 0)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("whatsapp.api_url", "https://api.green-api.com")
	v.SetDefault("whatsapp.rps", 1)
}

// Load читает yaml-конфиг, затем .env и переменные окружения APP_*.
// Файл конфига необязателен: всё можно задать через окружение.
func Load(path string) (Config, error) {
	// .env кладём в окружение, реальные переменные не перетираем
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return c, fmt.Errorf("read config: %w", err)
		}
	}
	// AutomaticEnv не видит ключи без значения в файле — привязываем явно
	for _, key := range []string{
		"telegram.token", "telegram.group_id", "telegram.admin_ids", "postgres.dsn",
		"redis.addr", "redis.password", "whatsapp.instance_id", "whatsapp.token",
		"whatsapp.group_id", "whatsapp.recipient", "bot.strict_matching",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
