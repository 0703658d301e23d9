package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Printer   PrinterConfig
	Store     StoreConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver     string // postgres, mysql or sqlite
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level  string
	Format string
}

type PrinterConfig struct {
	DialTimeout     time.Duration
	DispatchTimeout time.Duration
	PaperWidth      int
}

// StoreConfig seeds the store settings row on first start. After that the
// database row is authoritative.
type StoreConfig struct {
	Name           string
	Address        string
	Contact        string
	GSTNumber      string
	FSSAINumber    string
	StockUpdate    bool
	TaxEnabled     bool
	SGST           string
	CGST           string
	IGST           string
	AutoPrintBill  bool
	AutoPrintKOT   bool
	AutoPrintToken bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "tablepos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "tablepos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_SQLITE_PATH", "./tablepos.db")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("PRINTER_DIAL_TIMEOUT_MS", 3000)
	viper.SetDefault("PRINTER_DISPATCH_TIMEOUT_MS", 8000)
	viper.SetDefault("PRINTER_PAPER_WIDTH", 40)
	viper.SetDefault("STORE_NAME", "My Restaurant")
	viper.SetDefault("STORE_STOCK_UPDATE", false)
	viper.SetDefault("STORE_TAX_ENABLED", false)
	viper.SetDefault("STORE_SGST", "0")
	viper.SetDefault("STORE_CGST", "0")
	viper.SetDefault("STORE_IGST", "0")
	viper.SetDefault("STORE_AUTO_PRINT_BILL", true)
	viper.SetDefault("STORE_AUTO_PRINT_KOT", true)
	viper.SetDefault("STORE_AUTO_PRINT_TOKEN", false)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Printer: PrinterConfig{
			DialTimeout:     time.Duration(viper.GetInt("PRINTER_DIAL_TIMEOUT_MS")) * time.Millisecond,
			DispatchTimeout: time.Duration(viper.GetInt("PRINTER_DISPATCH_TIMEOUT_MS")) * time.Millisecond,
			PaperWidth:      viper.GetInt("PRINTER_PAPER_WIDTH"),
		},
		Store: StoreConfig{
			Name:           viper.GetString("STORE_NAME"),
			Address:        viper.GetString("STORE_ADDRESS"),
			Contact:        viper.GetString("STORE_CONTACT"),
			GSTNumber:      viper.GetString("STORE_GST_NUMBER"),
			FSSAINumber:    viper.GetString("STORE_FSSAI_NUMBER"),
			StockUpdate:    viper.GetBool("STORE_STOCK_UPDATE"),
			TaxEnabled:     viper.GetBool("STORE_TAX_ENABLED"),
			SGST:           viper.GetString("STORE_SGST"),
			CGST:           viper.GetString("STORE_CGST"),
			IGST:           viper.GetString("STORE_IGST"),
			AutoPrintBill:  viper.GetBool("STORE_AUTO_PRINT_BILL"),
			AutoPrintKOT:   viper.GetBool("STORE_AUTO_PRINT_KOT"),
			AutoPrintToken: viper.GetBool("STORE_AUTO_PRINT_TOKEN"),
		},
	}
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case "sqlite":
		return c.SQLitePath
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
