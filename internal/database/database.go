package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/sijms/go-ora/v2"

	"assessments/internal/types"
)

// dsn builds a properly encoded connection string for Oracle
func dsn(username, password, host, port, service string, walletLocation string) string {
	if walletLocation != "" {
		// Use wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(username), url.PathEscape(password), host, port, service, url.PathEscape(walletLocation))
	}

	return (&url.URL{
		Scheme: "oracle",
		User:   url.UserPassword(username, password), // escapes automatically
		Host:   host + ":" + port,
		Path:   "/" + service, // keep full service name
	}).String()
}

// DBConfig holds database connection configuration and the source table names.
// The DB_* variable names are read without the application prefix.
type DBConfig struct {
	Host           string        `yaml:"host" envconfig:"DB_HOST"`
	Port           string        `yaml:"port" envconfig:"DB_PORT"`
	Service        string        `yaml:"service" envconfig:"DB_SERVICE"`
	Username       string        `yaml:"username" envconfig:"DB_USERNAME"`
	Password       string        `yaml:"password" envconfig:"DB_PASSWORD"`
	WalletLocation string        `yaml:"wallet_location" envconfig:"DB_WALLET_LOCATION"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"DB_TIMEOUT"`

	ConstructionTable string `yaml:"construction_table" envconfig:"DB_CONSTRUCTION_TABLE"`
	LandTable         string `yaml:"land_table" envconfig:"DB_LAND_TABLE"`
	AssessmentTable   string `yaml:"assessment_table" envconfig:"DB_ASSESSMENT_TABLE"`
}

// Database holds the database connection and configuration
type Database struct {
	db     *sql.DB
	config DBConfig
}

// NewDatabase opens a connection and pings it within the configured timeout.
func NewDatabase(ctx context.Context, config DBConfig) (*Database, error) {
	for _, table := range []string{config.ConstructionTable, config.LandTable, config.AssessmentTable} {
		if !validTable.MatchString(table) {
			return nil, fmt.Errorf("invalid table name %q", table)
		}
	}

	connStr := dsn(config.Username, config.Password, config.Host, config.Port, config.Service, config.WalletLocation)
	slog.Info("connecting to oracle", slog.String("host", config.Host), slog.String("service", config.Service))

	db, err := sql.Open("oracle", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, config.timeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		db:     db,
		config: config,
	}, nil
}

func (c DBConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

var validTable = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*(\.[A-Za-z][A-Za-z0-9_$#]*)?$`)

// selectQuery builds a SELECT of the named columns. Table names are checked by
// NewDatabase; columns are package constants.
func selectQuery(table string, cols ...string) string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
}

// Load reads the construction, land and assessment tables.
func (d *Database) Load(ctx context.Context) (types.Sources, error) {
	var src types.Sources
	var err error

	start := time.Now()
	if src.Construction, err = d.queryConstruction(ctx); err != nil {
		return types.Sources{}, err
	}
	if src.Land, err = d.queryLand(ctx); err != nil {
		return types.Sources{}, err
	}
	if src.Assessment, err = d.queryAssessment(ctx); err != nil {
		return types.Sources{}, err
	}

	slog.Info("oracle sources loaded",
		slog.Int("construction", len(src.Construction)),
		slog.Int("land", len(src.Land)),
		slog.Int("assessment", len(src.Assessment)),
		slog.Duration("elapsed", time.Since(start)))
	return src, nil
}

// queryConstruction queries the year-of-construction table
func (d *Database) queryConstruction(ctx context.Context) ([]types.ConstructionRecord, error) {
	query := selectQuery(d.config.ConstructionTable,
		types.ColRollYear, types.ColRollNumber, types.ColAddress, types.ColYearOfConstruction)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query construction years: %w", err)
	}
	defer rows.Close()

	var records []types.ConstructionRecord
	for rows.Next() {
		var rec types.ConstructionRecord
		var roll, address sql.NullString
		if err := rows.Scan(&rec.RollYear, &roll, &address, &rec.YearOfConstruction); err != nil {
			return nil, fmt.Errorf("failed to scan construction year: %w", err)
		}
		rec.RollNumber = strings.TrimSpace(roll.String)
		rec.Address = strings.TrimSpace(address.String)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read construction years: %w", err)
	}
	return records, nil
}

func (d *Database) queryLand(ctx context.Context) ([]types.LandRecord, error) {
	query := selectQuery(d.config.LandTable,
		types.ColRollYear, types.ColRollNumber, types.ColLandSizeSM, types.ColLandSizeSF, types.ColLandSizeAC)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query land sizes: %w", err)
	}
	defer rows.Close()

	var records []types.LandRecord
	for rows.Next() {
		var rec types.LandRecord
		var roll sql.NullString
		if err := rows.Scan(&rec.RollYear, &roll, &rec.LandSizeSM, &rec.LandSizeSF, &rec.LandSizeAC); err != nil {
			return nil, fmt.Errorf("failed to scan land size: %w", err)
		}
		rec.RollNumber = strings.TrimSpace(roll.String)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read land sizes: %w", err)
	}
	return records, nil
}

func (d *Database) queryAssessment(ctx context.Context) ([]types.AssessmentRecord, error) {
	query := selectQuery(d.config.AssessmentTable,
		types.ColRollYear, types.ColAddress, types.ColRollNumber, types.ColCommCode, types.ColCommName, types.ColAssessedValue)

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []types.AssessmentRecord
	for rows.Next() {
		var rec types.AssessmentRecord
		var address, roll, code, name sql.NullString
		if err := rows.Scan(&rec.RollYear, &address, &roll, &code, &name, &rec.AssessedValue); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		rec.Address = strings.TrimSpace(address.String)
		rec.RollNumber = strings.TrimSpace(roll.String)
		rec.CommCode = strings.TrimSpace(code.String)
		rec.CommName = strings.TrimSpace(name.String)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assessments: %w", err)
	}
	return records, nil
}
