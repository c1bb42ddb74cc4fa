package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		MonitoringPort     int      `mapstructure:"monitoring_port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Maintenance thresholds are named, overridable parameters, never
	// literals in the scheduler.
	Maintenance struct {
		KilometerThreshold  int `mapstructure:"kilometer_threshold"`
		RentalDaysThreshold int `mapstructure:"rental_days_threshold"`
	} `mapstructure:"maintenance"`

	Billing struct {
		// Deductions at or above this amount open a high-priority
		// maintenance record.
		HighPriorityDeduction float64 `mapstructure:"high_priority_deduction"`
	} `mapstructure:"billing"`

	Mail struct {
		SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
		FromAddress    string `mapstructure:"from_address"`
		FromName       string `mapstructure:"from_name"`
	} `mapstructure:"mail"`

	Artifacts struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"artifacts"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.monitoring_port", 9090)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "rental-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "rental_db")
	v.SetDefault("maintenance.kilometer_threshold", 1000)
	v.SetDefault("maintenance.rental_days_threshold", 10)
	v.SetDefault("billing.high_priority_deduction", 100.0)
	v.SetDefault("mail.from_address", "noreply@rental.local")
	v.SetDefault("mail.from_name", "Rental Desk")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// JWT secret must come from somewhere; env wins over config file
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not found in environment or config file")
		}
	}

	// Mail and artifact credentials from environment
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		cfg.Mail.SendGridAPIKey = key
	}
	if key := os.Getenv("ARTIFACTS_ACCESS_KEY"); key != "" {
		cfg.Artifacts.AccessKey = key
	}
	if key := os.Getenv("ARTIFACTS_SECRET_KEY"); key != "" {
		cfg.Artifacts.SecretKey = key
	}
	if bucket := os.Getenv("ARTIFACTS_BUCKET"); bucket != "" {
		cfg.Artifacts.Bucket = bucket
	}
	if endpoint := os.Getenv("ARTIFACTS_ENDPOINT"); endpoint != "" {
		cfg.Artifacts.Endpoint = endpoint
	}

	return &cfg
}
