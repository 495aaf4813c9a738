package config

import (
	"errors"
	"strings"
	"time"
	// Containers often ship without /usr/share/zoneinfo.
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	OxiDB    OxiDBConfig    `mapstructure:"oxidb"`
	Mail     MailConfig     `mapstructure:"mail"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
	// Timezone is the IANA zone report dates and month filters are read in.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errs.Invalidf("unknown timezone %q", c.Timezone)
	}
	return loc, nil
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	// CORSOrigins lists browser origins allowed to call the API. "*" allows any.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
}

// OxiDBConfig points at the blob store for work-report attachments.
// An empty host disables attachments.
type OxiDBConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	PoolSize  int           `mapstructure:"pool_size"`
	Bucket    string        `mapstructure:"bucket"`
	Keepalive time.Duration `mapstructure:"keepalive"`
}

func (c OxiDBConfig) Enabled() bool { return c.Host != "" }

type MailConfig struct {
	Host          string   `mapstructure:"host"`
	Port          int      `mapstructure:"port"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	From          string   `mapstructure:"from"`
	SOSRecipients []string `mapstructure:"sos_recipients"`
}

func (c MailConfig) Enabled() bool { return c.Host != "" }

type NATSConfig struct {
	URL        string `mapstructure:"url"`
	SOSSubject string `mapstructure:"sos_subject"`
}

func (c NATSConfig) Enabled() bool { return c.URL != "" }

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	GelfAddr string `mapstructure:"gelf_addr"`
}

// Load reads defaults, then the optional config file, then PORTAL_* env vars.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("portal")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errs.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(err, "unmarshal config")
	}
	// Lists from the environment arrive as one comma string, split untrimmed.
	cfg.Mail.SOSRecipients = splitList(strings.Join(cfg.Mail.SOSRecipients, ","))
	cfg.HTTP.CORSOrigins = splitList(strings.Join(cfg.HTTP.CORSOrigins, ","))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return errs.Invalidf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errs.Invalid("database.dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return errs.Invalid("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errs.Invalid("auth.token_ttl must be positive")
	}
	if c.OxiDB.Enabled() && c.OxiDB.PoolSize < 1 {
		return errs.Invalid("oxidb.pool_size must be at least 1")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Asia/Kolkata")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/portal.db")
	v.SetDefault("auth.jwt_secret", "portal-dev-secret-change-me")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_email", "admin@portal.local")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("oxidb.host", "")
	v.SetDefault("oxidb.port", 4444)
	v.SetDefault("oxidb.pool_size", 3)
	v.SetDefault("oxidb.bucket", "portal_attachments")
	v.SetDefault("oxidb.keepalive", "10s")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "sos@portal.local")
	v.SetDefault("mail.sos_recipients", []string{})
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.sos_subject", "portal.sos")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.gelf_addr", "")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
