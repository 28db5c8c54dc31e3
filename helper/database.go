package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseConfiguration holds the connection parameters for PostgreSQL
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration creates a configuration from environment variables
// (KINSHIP_DB_HOST, KINSHIP_DB_PORT, KINSHIP_DB_DATABASE, KINSHIP_DB_USERNAME,
// KINSHIP_DB_PASSWORD, KINSHIP_DB_SCHEMA, KINSHIP_DB_SSLMODE)
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	config := &DatabaseConfiguration{
		Host:     os.Getenv("KINSHIP_DB_HOST"),
		Port:     os.Getenv("KINSHIP_DB_PORT"),
		Database: os.Getenv("KINSHIP_DB_DATABASE"),
		Username: os.Getenv("KINSHIP_DB_USERNAME"),
		Password: os.Getenv("KINSHIP_DB_PASSWORD"),
		Schema:   os.Getenv("KINSHIP_DB_SCHEMA"),
		SSLMode:  os.Getenv("KINSHIP_DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, fmt.Errorf("incomplete database configuration, required envs: KINSHIP_DB_HOST, KINSHIP_DB_PORT, KINSHIP_DB_DATABASE, KINSHIP_DB_USERNAME")
	}
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// ConnectionString builds the lib/pq connection string
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s search_path=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.Schema, c.SSLMode,
	)
}

// Database wraps the sql connection with its logger
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a database connection and pings it.
// It panics on connection failure, matching the fail-fast startup behavior.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		log.Panicf("error opening database connection: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Panicf("error pinging database: %v", err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host), slog.String("port", config.Port))

	return &Database{
		Name:     name,
		Instance: db,
		Logger:   logger,
	}
}

// Close closes the underlying database connection
func (d *Database) Close() error {
	return d.Instance.Close()
}

// NewTestDatabase opens a database connection for tests, logging to stdout
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelWarn,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))
	return NewDatabase("kinship_test", config, logger)
}

// MustStartPostgresContainer starts a PostgreSQL test container and returns a
// teardown function and the mapped host port
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	var (
		dbName = "database"
		dbUser = "user"
		dbPwd  = "password"
	)

	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", err
	}

	return container.Terminate, mappedPort.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database envs used by
// NewDatabaseConfiguration to the test container defaults
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("KINSHIP_DB_HOST", "localhost")
	t.Setenv("KINSHIP_DB_PORT", port)
	t.Setenv("KINSHIP_DB_DATABASE", "database")
	t.Setenv("KINSHIP_DB_USERNAME", "user")
	t.Setenv("KINSHIP_DB_PASSWORD", "password")
	t.Setenv("KINSHIP_DB_SCHEMA", "public")
	t.Setenv("KINSHIP_DB_SSLMODE", "disable")
}
