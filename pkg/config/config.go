package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/qybrrlabs/portal/pkg/types"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

// SupabaseConfig holds the authentication/storage provider settings.
// JWTSecret is the project's JWT secret used to verify provider-issued
// access tokens locally before any provider round-trip.
type SupabaseConfig struct {
	URL          string `mapstructure:"url"`
	AnonKey      string `mapstructure:"anon_key"`
	ServiceKey   string `mapstructure:"service_key"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	AvatarBucket string `mapstructure:"avatar_bucket"`
}

type SanityConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Dataset    string `mapstructure:"dataset"`
	APIVersion string `mapstructure:"api_version"`
	UseCDN     bool   `mapstructure:"use_cdn"`
}

type MailchimpConfig struct {
	APIKey     string `mapstructure:"api_key"`
	AudienceID string `mapstructure:"audience_id"`
}

type ResendConfig struct {
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
}

type SiteConfig struct {
	URL         string `mapstructure:"url"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
	LoginPath   string `mapstructure:"login_path"`
}

type Config struct {
	Env         Env              `mapstructure:"env"`
	Server      ServerConfig     `mapstructure:"server"`
	Supabase    SupabaseConfig   `mapstructure:"supabase"`
	Sanity      SanityConfig     `mapstructure:"sanity"`
	Mailchimp   MailchimpConfig  `mapstructure:"mailchimp"`
	Resend      ResendConfig     `mapstructure:"resend"`
	Site        SiteConfig       `mapstructure:"site"`
	Products    []*types.Product `mapstructure:"products"`
	MetricsAddr string           `mapstructure:"metrics_addr"`
}

func (c *Config) GetProductByID(id string) *types.Product {
	for _, p := range c.Products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func New() (*Config, error) {
	v := viper.New()
	// Allow overriding config file via env:
	// - APP_CONFIG_FILE: absolute or relative file path (e.g., /etc/app/prod.yaml)
	// - APP_CONFIG_NAME: config base name without extension (default: "config")
	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		cfgName := os.Getenv("APP_CONFIG_NAME")
		if cfgName == "" {
			cfgName = "config"
		}
		v.SetConfigName(cfgName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "dev")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8888)
	v.SetDefault("metrics_addr", ":90")
	v.SetDefault("supabase.avatar_bucket", "avatars")
	v.SetDefault("sanity.api_version", "v2021-10-21")
	v.SetDefault("sanity.dataset", "production")
	v.SetDefault("site.url", "http://localhost:3000")
	v.SetDefault("site.title", "QybrrLabs Blog")
	v.SetDefault("site.description", "Latest AI insights and SaaS strategies from QybrrLabs.")
	v.SetDefault("site.author_name", "QybrrLabs Team")
	v.SetDefault("site.author_email", "support@qybrrlabs.blog")
	v.SetDefault("site.login_path", "/login")
	v.SetDefault("resend.from", "support@qybrrlabs.blog")

	if err := v.ReadInConfig(); err != nil {
		_ = err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
