package db

import (
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// NewLogger returns the gorm logger used by every connection: slow queries
// over 100ms are surfaced, full SQL only when GORM_DEBUG is set.
func NewLogger() logger.Interface {
	level := logger.Warn
	if os.Getenv("GORM_DEBUG") != "" {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Open connects to Postgres through the pgx driver and returns a gorm handle.
func Open(dsn string) (*gorm.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.RuntimeParams == nil {
		cfg.RuntimeParams = map[string]string{}
	}
	cfg.RuntimeParams["application_name"] = "georisk-api"

	sqlDB := stdlib.OpenDB(*cfg)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	d, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: NewLogger(),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// Connect opens DATABASE_URL into the package-level DB or exits.
func Connect() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	d, err := Open(dsn)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	DB = d
	log.Println("[db] Connected to database")
}
