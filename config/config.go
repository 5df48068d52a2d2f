package config

import (
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transport-broker-api/models"
)

// JWTSecret used to sign session tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "mahalaxmi_transport_secret_2024"))

type Config struct {
	Port            string
	DatabaseURL     string // Postgres DSN; empty means embedded SQLite
	SQLitePath      string
	UploadDir       string
	PublicBaseURL   string
	WhatsAppWebhook string
}

// Load reads configuration from the environment, with a best-effort .env load.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "transport_broker.db"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		WhatsAppWebhook: os.Getenv("WHATSAPP_WEBHOOK_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the configured database and migrates all models.
// Postgres when DATABASE_URL is set, embedded SQLite otherwise.
func InitDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates the full schema. Shared with tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SupplierProfile{},
		&models.BuyerProfile{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.OrderSubmission{},
		&models.AcceptedRequest{},
		&models.Truck{},
		&models.Driver{},
		&models.Document{},
		&models.Notification{},
	)
}
