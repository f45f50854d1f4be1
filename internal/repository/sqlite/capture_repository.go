package sqlite

import (
	"database/sql"
	"fmt"

	"stampcam/internal/models"
)

// CaptureRepository implements repository.CaptureRepository for SQLite.
type CaptureRepository struct {
	db *DB
}

// NewCaptureRepository creates a new SQLite capture repository.
func NewCaptureRepository(db *DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

// Insert adds a new capture record to the database.
func (r *CaptureRepository) Insert(c *models.Capture) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO captures (filename, facing, stamped, width, height, timestamp, filepath, filesize)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Filename, c.Facing, boolToInt(c.Stamped), c.Width, c.Height, c.Timestamp, c.FilePath, c.FileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to insert capture: %w", err)
	}

	return result.LastInsertId()
}

// GetByFilename retrieves a capture by its filename.
func (r *CaptureRepository) GetByFilename(filename string) (*models.Capture, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var c models.Capture
	var stamped int
	err := r.db.Conn().QueryRow(`
		SELECT id, filename, facing, stamped, width, height, timestamp, filepath, filesize
		FROM captures WHERE filename = ?
	`, filename).Scan(&c.ID, &c.Filename, &c.Facing, &stamped, &c.Width, &c.Height, &c.Timestamp, &c.FilePath, &c.FileSize)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}
	c.Stamped = stamped != 0
	return &c, nil
}

// GetAll retrieves captures based on filter criteria, newest first.
func (r *CaptureRepository) GetAll(filter *models.CaptureFilter) ([]models.Capture, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT id, filename, facing, stamped, width, height, timestamp, filepath, filesize
		FROM captures
		WHERE 1=1
	`
	args := []interface{}{}
	query, args = appendFilter(query, args, filter)

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var captures []models.Capture
	for rows.Next() {
		var c models.Capture
		var stamped int
		if err := rows.Scan(&c.ID, &c.Filename, &c.Facing, &stamped, &c.Width, &c.Height, &c.Timestamp, &c.FilePath, &c.FileSize); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		c.Stamped = stamped != 0
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// GetTotalCount returns the number of captures matching the filter.
func (r *CaptureRepository) GetTotalCount(filter *models.CaptureFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := "SELECT COUNT(*) FROM captures WHERE 1=1"
	args := []interface{}{}
	query, args = appendFilter(query, args, filter)

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// DeleteByFilename removes a single capture record.
func (r *CaptureRepository) DeleteByFilename(filename string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec("DELETE FROM captures WHERE filename = ?", filename); err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}
	return nil
}

// DeleteAll removes every capture record.
func (r *CaptureRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec("DELETE FROM captures"); err != nil {
		return fmt.Errorf("failed to clear captures: %w", err)
	}
	return nil
}

func appendFilter(query string, args []interface{}, filter *models.CaptureFilter) (string, []interface{}) {
	if filter.Facing != "" {
		query += " AND facing = ?"
		args = append(args, filter.Facing)
	}
	if !filter.DateAfter.IsZero() {
		query += " AND DATE(timestamp) >= DATE(?)"
		args = append(args, filter.DateAfter)
	}
	if !filter.DateBefore.IsZero() {
		query += " AND DATE(timestamp) <= DATE(?)"
		args = append(args, filter.DateBefore)
	}
	return query, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
