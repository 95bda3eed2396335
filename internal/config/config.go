package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config 汇总运行服务所需的全部配置，均可通过环境变量覆盖。
type Config struct {
	ListenAddr    string `yaml:"listen_addr" env:"LISTEN_ADDR" env-default:""`
	Port          string `yaml:"port" env:"PORT" env-default:"8080"`
	DatabasePath  string `yaml:"database_path" env:"DATABASE_PATH" env-default:"calmsey.db"`
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET" env-default:"calmsey-dev-secret"`
	GinMode       string `yaml:"gin_mode" env:"GIN_MODE" env-default:"release"`
	DevMode       bool   `yaml:"dev_mode" env:"DEV_MODE" env-default:"false"`

	UploadDir     string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"web/static/uploads"`
	UploadURLPath string `yaml:"upload_url_path" env:"UPLOAD_URL_PATH" env-default:"/static/uploads"`
	SiteBaseURL   string `yaml:"site_base_url" env:"SITE_BASE_URL" env-default:"http://localhost:8080"`

	DefaultLanguage string `yaml:"default_language" env:"DEFAULT_LANGUAGE" env-default:"en"`

	SuperAdminName     string `yaml:"super_admin_name" env:"SUPER_ADMIN_NAME" env-default:""`
	SuperAdminPassword string `yaml:"super_admin_password" env:"SUPER_ADMIN_PASSWORD" env-default:""`

	SMTP  SMTPConfig  `yaml:"smtp"`
	Relay RelayConfig `yaml:"relay"`

	Contact ContactConfig `yaml:"contact"`
}

// SMTPConfig 描述联系表单通知邮件的外发配置，Host 为空时禁用。
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-default:""`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME" env-default:""`
	Password string `yaml:"password" env:"SMTP_PASSWORD" env-default:""`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:""`
	To       string `yaml:"to" env:"SMTP_TO" env-default:""`
}

// RelayConfig points contact submissions at an external form-relay endpoint.
type RelayConfig struct {
	EndpointURL string `yaml:"endpoint_url" env:"FORM_RELAY_URL" env-default:""`
}

// ContactConfig bounds how often a single address may submit the form.
type ContactConfig struct {
	MaxPerWindow int `yaml:"max_per_window" env:"CONTACT_MAX_PER_WINDOW" env-default:"3"`
	WindowHours  int `yaml:"window_hours" env:"CONTACT_WINDOW_HOURS" env-default:"24"`
}

// Load reads configuration from the optional CONFIG_PATH YAML file and the
// environment. Environment variables win over file values.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	return cfg, nil
}
