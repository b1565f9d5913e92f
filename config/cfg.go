package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	httpapi "github.com/aminejameli/dropservices-manager/internal/api/http"
	"github.com/aminejameli/dropservices-manager/internal/apisrv/auth"
	"github.com/aminejameli/dropservices-manager/internal/bucket"
	"github.com/aminejameli/dropservices-manager/internal/expiry"
	"github.com/aminejameli/dropservices-manager/internal/mail"
	"github.com/aminejameli/dropservices-manager/internal/store"
	"github.com/aminejameli/dropservices-manager/log"
)

// Config represents the global configuration for the service.
type Config struct {
	DB     store.Config   `mapstructure:"mysql"`
	Logger log.Config     `mapstructure:"logger"`
	HTTP   httpapi.Config `mapstructure:"http"`
	Auth   auth.Config    `mapstructure:"auth"`
	Bucket bucket.Config  `mapstructure:"bucket"`
	Mailer mail.Config    `mapstructure:"mailer"`
	Expiry expiry.Config  `mapstructure:"expiry"`
}

// LoadConfig loads the configuration from a file and/or environment
// variables; environment variables take precedence over file values.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/dropservices-manager")
		viper.AddConfigPath("/etc/dropservices-manager")
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// Construct the DSN from individual env vars when it is not set, the
	// way managed database providers expose credentials.
	if config.DB.DSN == "" {
		host := os.Getenv("MYSQL_HOST")
		port := os.Getenv("MYSQL_PORT")
		user := os.Getenv("MYSQL_USER")
		password := os.Getenv("MYSQL_PASSWORD")
		database := os.Getenv("MYSQL_DATABASE")

		if host != "" && user != "" && password != "" && database != "" {
			if port == "" {
				port = "3306"
			}
			config.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8&parseTime=true",
				user, password, host, port, database)
			if config.DB.TLSCAPath != "" {
				config.DB.DSN += "&tls=custom"
			}
		}
	}

	return &config, nil
}

// bindEnvVars binds environment variables to config keys, so flat names like
// MYSQL_DSN work alongside the nested MYSQL__DSN form.
func bindEnvVars() {
	// MySQL
	viper.BindEnv("mysql.dsn", "MYSQL_DSN")
	viper.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	viper.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	viper.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	viper.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Auth
	viper.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	viper.BindEnv("auth.master_password", "AUTH_MASTER_PASSWORD")
	viper.BindEnv("auth.password_hasher_salt_size", "AUTH_PASSWORD_HASHER_SALT_SIZE")
	viper.BindEnv("auth.password_hasher_iterations", "AUTH_PASSWORD_HASHER_ITERATIONS")
	viper.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Bucket
	viper.BindEnv("bucket.s3_access_key", "BUCKET_S3_ACCESS_KEY")
	viper.BindEnv("bucket.s3_secret_access_key", "BUCKET_S3_SECRET_ACCESS_KEY")
	viper.BindEnv("bucket.s3_endpoint", "BUCKET_S3_ENDPOINT")
	viper.BindEnv("bucket.s3_bucket_name", "BUCKET_S3_BUCKET_NAME")
	viper.BindEnv("bucket.s3_bucket_location", "BUCKET_S3_BUCKET_LOCATION")
	viper.BindEnv("bucket.base_folder", "BUCKET_BASE_FOLDER")

	// Mailer
	viper.BindEnv("mailer.sendgrid_api_key", "MAILER_SENDGRID_API_KEY")
	viper.BindEnv("mailer.from_email", "MAILER_FROM_EMAIL")
	viper.BindEnv("mailer.from_email_name", "MAILER_FROM_EMAIL_NAME")
	viper.BindEnv("mailer.worker_interval", "MAILER_WORKER_INTERVAL")

	// Expiry worker
	viper.BindEnv("expiry.worker_interval", "EXPIRY_WORKER_INTERVAL")
	viper.BindEnv("expiry.admin_email", "EXPIRY_ADMIN_EMAIL")
	viper.BindEnv("expiry.digest_interval", "EXPIRY_DIGEST_INTERVAL")
}
