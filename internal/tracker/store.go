// Package tracker persists continuity updates: which creatures appeared in
// which episodes, and how often each enemy silhouette has been teased.
// The core generation pipeline never writes here; the orchestrator records
// updates after a successful render.
package tracker

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fireverse/worldengine/internal/config"
	"github.com/fireverse/worldengine/internal/logger"
)

// Store wraps the database connection and provides continuity operations.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// SilhouetteMemory holds per-arc silhouette hint statistics.
type SilhouetteMemory struct {
	ArcID           string
	Silhouette      string
	HintCount       int
	LastEpisodeSeen int
}

// Open opens the continuity store described by the configuration.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(cfg.SQLitePath)
	case "postgres":
		return openPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown tracker store driver %q", cfg.Driver)
	}
}

// openSQLite opens or creates the SQLite database at the given path.
func openSQLite(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tracker store directory: %w", err)
	}
	return open(NewDialect(DialectSQLite), path)
}

// openPostgres connects to the configured PostgreSQL database.
func openPostgres(cfg config.PostgresConfig) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)
	return open(NewDialect(DialectPostgres), dsn)
}

func open(dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracker store: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize tracker store: %w", err)
		}
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run tracker store migrations: %w", err)
	}

	logger.Info("Tracker store opened", "driver", dialect.DriverName())
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist. Composite primary keys
// keep the DDL portable across both dialects.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS appearances (
			arc_id TEXT NOT NULL,
			creature_id TEXT NOT NULL,
			episode_id INTEGER NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (arc_id, creature_id, episode_id)
		)`,

		`CREATE TABLE IF NOT EXISTS silhouette_memory (
			arc_id TEXT NOT NULL,
			silhouette TEXT NOT NULL,
			hint_count INTEGER NOT NULL DEFAULT 0,
			last_episode_seen INTEGER,
			PRIMARY KEY (arc_id, silhouette)
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// RecordAppearance increments the appearance count for a creature in an
// episode.
func (s *Store) RecordAppearance(arcID, creatureID string, episodeID int) error {
	d := s.dialect
	query := fmt.Sprintf(`INSERT INTO appearances (arc_id, creature_id, episode_id, count)
		VALUES (%s, %s, %s, 1)
		ON CONFLICT (arc_id, creature_id, episode_id) DO UPDATE SET count = appearances.count + 1`,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3))

	if _, err := s.db.Exec(query, arcID, creatureID, episodeID); err != nil {
		return fmt.Errorf("failed to record appearance: %w", err)
	}
	return nil
}

// AppearanceCounts returns cumulative appearance counts per creature for
// one arc.
func (s *Store) AppearanceCounts(arcID string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT creature_id, SUM(count) FROM appearances
		WHERE arc_id = %s GROUP BY creature_id`, s.dialect.Placeholder(1))

	rows, err := s.db.Query(query, arcID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appearance counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var creatureID string
		var count int
		if err := rows.Scan(&creatureID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan appearance count: %w", err)
		}
		counts[creatureID] = count
	}
	return counts, rows.Err()
}

// RecordSilhouetteHint bumps the hint count for an arc's silhouette and
// remembers the episode it was last teased in.
func (s *Store) RecordSilhouetteHint(arcID, silhouette string, episodeID int) error {
	d := s.dialect
	query := fmt.Sprintf(`INSERT INTO silhouette_memory (arc_id, silhouette, hint_count, last_episode_seen)
		VALUES (%s, %s, 1, %s)
		ON CONFLICT (arc_id, silhouette) DO UPDATE SET
			hint_count = silhouette_memory.hint_count + 1,
			last_episode_seen = excluded.last_episode_seen`,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3))

	if _, err := s.db.Exec(query, arcID, silhouette, episodeID); err != nil {
		return fmt.Errorf("failed to record silhouette hint: %w", err)
	}
	return nil
}

// Memory returns the silhouette hint statistics for one arc, or nil if the
// silhouette has never been teased.
func (s *Store) Memory(arcID, silhouette string) (*SilhouetteMemory, error) {
	d := s.dialect
	query := fmt.Sprintf(`SELECT hint_count, last_episode_seen FROM silhouette_memory
		WHERE arc_id = %s AND silhouette = %s`, d.Placeholder(1), d.Placeholder(2))

	var m SilhouetteMemory
	m.ArcID = arcID
	m.Silhouette = silhouette

	var lastEpisode sql.NullInt64
	err := s.db.QueryRow(query, arcID, silhouette).Scan(&m.HintCount, &lastEpisode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query silhouette memory: %w", err)
	}
	if lastEpisode.Valid {
		m.LastEpisodeSeen = int(lastEpisode.Int64)
	}
	return &m, nil
}
