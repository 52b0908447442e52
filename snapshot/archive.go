package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound indicates the requested snapshot doesn't exist
var ErrSnapshotNotFound = errors.New("snapshot not found")

var log = commonlog.GetLogger("memcore.snapshot")

// Entry describes an archived snapshot.
type Entry struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Size      int // encoded size in bytes
}

// Archive stores encoded snapshots in a SQLite database.
type Archive struct {
	db     *sql.DB
	dbPath string
}

// OpenArchive opens or creates the archive at dbPath.
func OpenArchive(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Archive{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Save encodes s and stores it under a new id.
func (a *Archive) Save(label string, s *Snapshot) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	id := uuid.New().String()
	_, err = a.db.Exec(
		"INSERT INTO snapshots (id, label, created_at, data) VALUES (?, ?, ?, ?)",
		id, label, time.Now().UnixNano(), data,
	)
	if err != nil {
		return "", fmt.Errorf("saving snapshot: %w", err)
	}

	log.Infof("archived snapshot %s (%q, %d bytes) in %s", id, label, len(data), a.dbPath)
	return id, nil
}

// Load retrieves and decodes a snapshot.
func (a *Archive) Load(id string) (*Snapshot, error) {
	var data []byte
	err := a.db.QueryRow("SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return Unmarshal(data)
}

// List returns all archived snapshots, oldest first.
func (a *Archive) List() ([]Entry, error) {
	rows, err := a.db.Query("SELECT id, label, created_at, length(data) FROM snapshots ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Label, &created, &e.Size); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a snapshot.
func (a *Archive) Delete(id string) error {
	res, err := a.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
