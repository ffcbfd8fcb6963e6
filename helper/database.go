package helper

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the Postgres connection parameters. Values come
// from the environment (a .env file is loaded best-effort).
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

// NewDatabaseConfiguration reads the connection parameters from the
// environment. DB_HOST, DB_PORT, DB_DATABASE, DB_USERNAME and DB_PASSWORD are
// required; DB_SSLMODE defaults to disable.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Database: os.Getenv("DB_DATABASE"),
		Username: os.Getenv("DB_USERNAME"),
		Password: os.Getenv("DB_PASSWORD"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	for key, value := range map[string]string{
		"DB_HOST":     config.Host,
		"DB_PORT":     config.Port,
		"DB_DATABASE": config.Database,
		"DB_USERNAME": config.Username,
		"DB_PASSWORD": config.Password,
	} {
		if value == "" {
			return nil, NewError("read database configuration", fmt.Errorf("missing environment variable %v", key))
		}
	}

	return config, nil
}

// Database wraps the sql connection together with the logger the handlers
// log through.
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a Postgres connection for the given configuration.
// Connection failures are unrecoverable at startup, so it panics instead of
// returning an error.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	dsn := fmt.Sprintf(
		"host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		config.Host, config.Port, config.Username, config.Password, config.Database, config.SSLMode,
	)

	instance, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Panicf("error opening database %v: %v", name, err)
	}

	instance.SetMaxOpenConns(10)
	instance.SetConnMaxLifetime(time.Hour)

	if err := instance.Ping(); err != nil {
		log.Panicf("error connecting to database %v: %v", name, err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Instance: instance,
		Logger:   logger,
	}
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	return d.Instance.Close()
}

// NewTestDatabase opens a connection with a warn-level logger, keeping test
// output quiet.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelWarn,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))

	return NewDatabase("test", config, logger)
}
