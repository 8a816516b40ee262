package sqlite

import "time"

// Entry is one row of the key-value table
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanEntry scans a single entry from a database row
func ScanEntry(scanner Scanner) (*Entry, error) {
	entry := &Entry{}
	var updatedAt string

	if err := scanner.Scan(&entry.Key, &entry.Value, &updatedAt); err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, err
	}
	entry.UpdatedAt = t

	return entry, nil
}
