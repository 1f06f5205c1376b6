package settings

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"
)

// Value type discriminators in the settings table.
const (
	typeBool   = "b"
	typeInt    = "i"
	typeDouble = "d"
	typeString = "s"
)

// SQLStore is a sqlite-backed Store. All writes go straight to the
// database; a batch accumulates writes in one transaction and dispatches
// change notification only on commit.
type SQLStore struct {
	*notifier
	db     *sql.DB
	logger *slog.Logger

	txMu sync.Mutex
	tx   *sql.Tx
}

// OpenSQL opens (creating if needed) the settings database at dbPath.
func OpenSQL(dbPath string, logger *slog.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    type  TEXT NOT NULL,
    value TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings schema: %w", err)
	}

	return &SQLStore{
		notifier: newNotifier(),
		db:       db,
		logger:   logger,
	}, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	s.txMu.Lock()
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	s.txMu.Unlock()
	return s.db.Close()
}

func (s *SQLStore) read(key, wantType string) (string, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	var typ, value string
	var err error
	row := s.queryRow(`SELECT type, value FROM settings WHERE key = ?`, key)
	if err = row.Scan(&typ, &value); err != nil {
		return "", err
	}
	if typ != wantType {
		return "", fmt.Errorf("key %q holds %q, want %q", key, typ, wantType)
	}
	return value, nil
}

func (s *SQLStore) queryRow(query string, args ...any) *sql.Row {
	if s.tx != nil {
		return s.tx.QueryRow(query, args...)
	}
	return s.db.QueryRow(query, args...)
}

func (s *SQLStore) write(key, typ, value string) {
	s.txMu.Lock()
	var err error
	if s.tx != nil {
		_, err = s.tx.Exec(`INSERT INTO settings (key, type, value) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET type = excluded.type, value = excluded.value`, key, typ, value)
	} else {
		_, err = s.db.Exec(`INSERT INTO settings (key, type, value) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET type = excluded.type, value = excluded.value`, key, typ, value)
	}
	s.txMu.Unlock()

	if err != nil {
		if s.logger != nil {
			s.logger.Warn("settings write failed", "key", key, "err", err)
		}
		return
	}
	s.changed(key)
}

// GetBool returns the stored value or the key's default.
func (s *SQLStore) GetBool(key string) bool {
	v, err := s.read(key, typeBool)
	if err != nil {
		if err != sql.ErrNoRows {
			logFallback(s.logger, key, err)
		}
		return defaultBool(key)
	}
	return v == "1"
}

// GetInt returns the stored value or the key's default.
func (s *SQLStore) GetInt(key string) int {
	v, err := s.read(key, typeInt)
	if err != nil {
		if err != sql.ErrNoRows {
			logFallback(s.logger, key, err)
		}
		return defaultInt(key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logFallback(s.logger, key, err)
		return defaultInt(key)
	}
	return n
}

// GetDouble returns the stored value or the key's default.
func (s *SQLStore) GetDouble(key string) float64 {
	v, err := s.read(key, typeDouble)
	if err != nil {
		if err != sql.ErrNoRows {
			logFallback(s.logger, key, err)
		}
		return defaultDouble(key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logFallback(s.logger, key, err)
		return defaultDouble(key)
	}
	return f
}

// GetString returns the stored value or the key's default.
func (s *SQLStore) GetString(key string) string {
	v, err := s.read(key, typeString)
	if err != nil {
		if err != sql.ErrNoRows {
			logFallback(s.logger, key, err)
		}
		return defaultString(key)
	}
	return v
}

func (s *SQLStore) SetBool(key string, v bool) {
	if v {
		s.write(key, typeBool, "1")
	} else {
		s.write(key, typeBool, "0")
	}
}

func (s *SQLStore) SetInt(key string, v int) {
	s.write(key, typeInt, strconv.Itoa(v))
}

func (s *SQLStore) SetDouble(key string, v float64) {
	s.write(key, typeDouble, strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *SQLStore) SetString(key string, v string) {
	s.write(key, typeString, v)
}

func (s *SQLStore) Subscribe(key string, fn ChangeFunc) Subscription {
	return s.subscribe(key, fn)
}

func (s *SQLStore) Unsubscribe(sub Subscription) { s.unsubscribe(sub) }

// BeginBatch opens a transaction; writes until CommitBatch are atomic and
// notify subscribers only once per key on commit.
func (s *SQLStore) BeginBatch() {
	s.txMu.Lock()
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("settings batch begin failed", "err", err)
			}
		} else {
			s.tx = tx
		}
	}
	s.txMu.Unlock()
	s.begin()
}

// CommitBatch commits the open transaction and dispatches the deferred
// notifications.
func (s *SQLStore) CommitBatch() {
	s.txMu.Lock()
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil && s.logger != nil {
			s.logger.Warn("settings batch commit failed", "err", err)
		}
		s.tx = nil
	}
	s.txMu.Unlock()
	s.commit()
}
