// Package postgres provides a Postgres-backed persistent store that mirrors
// the in-memory semantics, snapshotting state as JSONB bucket payloads after
// every successful transaction.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/rs/zerolog/log"

	"campuscore/internal/infra/persistence/memory"
	"campuscore/pkg/domain"
)

// Compile-time contract assertions for the interfaces this driver serves.
var (
	_ domain.PersistentStore = (*Store)(nil)
	_ domain.SessionStore    = (*Store)(nil)
	_ domain.OutboxStore     = (*Store)(nil)
)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with OpenPersistentStore defaults while allowing overrides via env.
	defaultDSN = "postgres://localhost/campuscore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory implementation
// for transactions.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN), ensures the schema exists, and hydrates the in-memory store
// from any existing snapshot.
func NewStore(dsn string, engine *domain.RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	snapshot, found, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore(engine)
	if found {
		mem.ImportState(snapshot)
	}
	return &Store{Store: mem, db: db}, nil
}

// RunInTransaction commits to memory first, then snapshots the state to
// Postgres. A persistence failure is reported as a PersistError; the
// in-memory commit stands regardless.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(ctx); pErr != nil {
		return res, domain.PersistError{Err: pErr}
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS state (
			bucket TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_outbox (
			class_key TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func loadSnapshot(ctx context.Context, db *sql.DB) (domain.Snapshot, bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot domain.Snapshot
	targets := snapshotBuckets(&snapshot)
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("scan state: %w", err)
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
		return domain.Snapshot{}, false, fmt.Errorf("iterate state: %w", err)
	}
	return snapshot, found, nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	buckets := snapshotBuckets(&snapshot)
	for _, bucket := range bucketOrder {
		data, err := json.Marshal(buckets[bucket])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
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
		if _, err := tx.ExecContext(ctx, `INSERT INTO session(key,value) VALUES($1,$2) ON CONFLICT(key) DO UPDATE SET value=EXCLUDED.value`, key, value); err != nil {
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
	_, err = s.db.ExecContext(ctx, `INSERT INTO attendance_outbox(class_key,payload) VALUES($1,$2) ON CONFLICT(class_key) DO UPDATE SET payload=EXCLUDED.payload`, payload.ClassDetails.ClassKey(), data)
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
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM attendance_outbox WHERE class_key = $1`, classKey).Scan(&data)
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
	_, err := s.db.ExecContext(ctx, `DELETE FROM attendance_outbox WHERE class_key = $1`, classKey)
	return err
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

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
