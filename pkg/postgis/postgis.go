package postgis

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/1F47E/psf-grid/pkg/geodesy"
	"github.com/1F47E/psf-grid/pkg/models"
	_ "github.com/lib/pq"
)

// DefaultTable receives exported points unless Config.Table is set.
const DefaultTable = "psf_points"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config describes the PostGIS connection.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Table    string
	SSLMode  string
}

// DSN returns the lib/pq connection string.
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

func (c Config) table() string {
	if c.Table == "" {
		return DefaultTable
	}
	return c.Table
}

type Store struct {
	db    *sql.DB
	table string
}

// NewStore creates a new PostGIS connection
func NewStore(cfg Config) (*Store, error) {
	return Open(cfg.DSN(), cfg.table())
}

// Open connects with a ready-made connection string
func Open(dsn, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db, table: table}, nil
}

func schemaQueries(table string) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, table),
		fmt.Sprintf(`CREATE TABLE %s (
			id SERIAL PRIMARY KEY,
			depth DOUBLE PRECISION NOT NULL,
			sign SMALLINT NOT NULL,
			sigma_h DOUBLE PRECISION NOT NULL,
			sigma_v DOUBLE PRECISION NOT NULL,
			location GEOMETRY(POINT, 4326) NOT NULL
		);`, table),
	}
}

// InitSchema recreates the point table
func (s *Store) InitSchema() error {
	for _, query := range schemaQueries(s.table) {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// CreateSpatialIndex creates a GIST index on the geometry column
func (s *Store) CreateSpatialIndex() error {
	query := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_location ON %s USING GIST(location);`, s.table, s.table)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create spatial index: %w", err)
	}

	// Analyze table for better query planning
	if _, err := s.db.Exec(fmt.Sprintf("ANALYZE %s;", s.table)); err != nil {
		return fmt.Errorf("failed to analyze table: %w", err)
	}
	return nil
}

// BulkInsertPoints inserts all points in one transaction. Longitudes are
// stored in [-180, 180).
func (s *Store) BulkInsertPoints(points []models.Point) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (depth, sign, sigma_h, sigma_v, location)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326))
	`, s.table))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		_, err := stmt.Exec(p.Depth, p.Sign, p.SigmaH, p.SigmaV,
			geodesy.WrapLongitude(p.Longitude), p.Latitude)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// QueryBox returns the points of one depth layer inside box. Box longitudes
// are in [-180, 180].
func (s *Store) QueryBox(box models.BoundingBox, depth float64) ([]models.Point, error) {
	query := fmt.Sprintf(`
		SELECT ST_Y(location) AS lat, ST_X(location) AS lon, depth, sign, sigma_h, sigma_v
		FROM %s
		WHERE location && ST_MakeEnvelope($1, $2, $3, $4, 4326) AND depth = $5
		ORDER BY id
	`, s.table)

	rows, err := s.db.Query(query,
		box.BottomLeft.Lon, box.BottomLeft.Lat,
		box.TopRight.Lon, box.TopRight.Lat, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var results []models.Point
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Depth, &p.Sign, &p.SigmaH, &p.SigmaV); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if p.Longitude < 0 {
			p.Longitude += 360
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// Count returns the number of points in the table
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
