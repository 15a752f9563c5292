// Package sqlite provides a SQLite-backed persistent store. It reuses the
// in-memory implementation for transactions and snapshots the full state to a
// single table of JSON bucket payloads after every successful commit.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"campuscore/internal/infra/persistence/memory"
	"campuscore/pkg/domain"
)

// Compile-time contract assertions for the interfaces this driver serves.
var (
	_ domain.PersistentStore = (*Store)(nil)
	_ domain.SessionStore    = (*Store)(nil)
	_ domain.OutboxStore     = (*Store)(nil)
)

// Store persists campuscore state to SQLite. The session pointer and the
// attendance outbox live in their own tables, apart from the entity snapshot.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) a SQLite-backed store at path and hydrates the
// in-memory state from any existing snapshot.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "campuscore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS state (
			bucket TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_outbox (
			class_key TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)`,
	} {
		if _, err := db.Exec(ddl); err != nil {
			return nil, fmt.Errorf("create table: %w", err)
		}
	}
	mem := memory.NewStore(engine)
	s := &Store{Store: mem, db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot domain.Snapshot
	targets := snapshotBuckets(&snapshot)
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		target, ok := targets[bucket]
		if !ok || len(payload) == 0 {
			continue
		}
		// An undecodable bucket is discarded rather than surfaced: the store
		// opens with whatever survives and reconciliation restores defaults.
		if err := json.Unmarshal(payload, target); err != nil {
			log.Warn().Err(err).Str("bucket", bucket).
				Msg("discarding undecodable snapshot bucket")
			continue
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if found {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	buckets := snapshotBuckets(&snapshot)
	for _, bucket := range bucketOrder {
		data, err := json.Marshal(buckets[bucket])
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	return tx.Commit()
}

// RunInTransaction commits to memory first, then snapshots the state to
// SQLite. A persistence failure is reported as a PersistError; the in-memory
// commit stands regardless.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, domain.PersistError{Err: pErr}
	}
	return res, nil
}

// SaveSession writes the session pointer as two scalar keys.
func (s *Store) SaveSession(ctx context.Context, pointer domain.SessionPointer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for key, value := range map[string]string{
		"currentUserId":   pointer.UserID,
		"currentUserType": string(pointer.Role),
	} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO session(key,value) VALUES(?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save session %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// LoadSession reads the session pointer, reporting whether one is stored.
func (s *Store) LoadSession(ctx context.Context) (domain.SessionPointer, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session`)
	if err != nil {
		return domain.SessionPointer{}, false, fmt.Errorf("select session: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var pointer domain.SessionPointer
	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.SessionPointer{}, false, fmt.Errorf("scan session: %w", err)
		}
		switch key {
		case "currentUserId":
			pointer.UserID = value
			found = found || value != ""
		case "currentUserType":
			pointer.Role = domain.Role(value)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.SessionPointer{}, false, err
	}
	return pointer, found, nil
}

// ClearSession removes the stored session pointer.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	return err
}

// Enqueue buffers an attendance payload, overwriting any prior payload for
// the same class key.
func (s *Store) Enqueue(ctx context.Context, payload domain.AttendancePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attendance_outbox(class_key,payload) VALUES(?,?) ON CONFLICT(class_key) DO UPDATE SET payload=excluded.payload`, payload.ClassDetails.ClassKey(), data)
	return err
}

// PendingKeys lists the buffered class keys in sorted order.
func (s *Store) PendingKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT class_key FROM attendance_outbox ORDER BY class_key`)
	if err != nil {
		return nil, fmt.Errorf("select outbox: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Get returns the buffered payload for a class key.
func (s *Store) Get(ctx context.Context, classKey string) (domain.AttendancePayload, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM attendance_outbox WHERE class_key = ?`, classKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AttendancePayload{}, false, nil
	}
	if err != nil {
		return domain.AttendancePayload{}, false, err
	}
	var payload domain.AttendancePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.AttendancePayload{}, false, fmt.Errorf("decode outbox %s: %w", classKey, err)
	}
	return payload, true, nil
}

// Remove drops the buffered payload for a class key.
func (s *Store) Remove(ctx context.Context, classKey string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attendance_outbox WHERE class_key = ?`, classKey)
	return err
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

var bucketOrder = []string{
	"events",
	"timeTable",
	"examTimeTable",
	"departments",
	"years",
	"hours",
	"teachers",
	"students",
	"pendingStudents",
	"leaveRequests",
	"announcements",
	"auditLogs",
	"feedbackSessions",
	"feedbackData",
	"studentFeeDetails",
	"studentResults",
}

func snapshotBuckets(snapshot *domain.Snapshot) map[string]any {
	return map[string]any{
		"events":            &snapshot.Events,
		"timeTable":         &snapshot.TimeTable,
		"examTimeTable":     &snapshot.ExamTimeTable,
		"departments":       &snapshot.Departments,
		"years":             &snapshot.Years,
		"hours":             &snapshot.Hours,
		"teachers":          &snapshot.Teachers,
		"students":          &snapshot.Students,
		"pendingStudents":   &snapshot.PendingStudents,
		"leaveRequests":     &snapshot.LeaveRequests,
		"announcements":     &snapshot.Announcements,
		"auditLogs":         &snapshot.AuditLogs,
		"feedbackSessions":  &snapshot.FeedbackSessions,
		"feedbackData":      &snapshot.FeedbackData,
		"studentFeeDetails": &snapshot.StudentFeeDetails,
		"studentResults":    &snapshot.StudentResults,
	}
}
