// Package blob provides a persistent store backed by a blob storage backend
// (filesystem, S3, or memory). Buckets, the session pointer, and the
// attendance outbox are stored as whole documents rewritten on every save,
// which matches the store's whole-state snapshot semantics.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	blobcore "campuscore/internal/blob/core"
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
	statePrefix   = "state/"
	sessionUserID = "session/current_user_id"
	sessionRole   = "session/current_user_type"
	outboxPrefix  = "outbox/"
)

// Store persists campuscore state to a blob backend while reusing the
// in-memory implementation for transactions.
type Store struct {
	*memory.Store
	blobs blobcore.Store
	mu    sync.Mutex
}

// NewStore wraps a blob backend and hydrates the in-memory state from any
// existing snapshot documents.
func NewStore(ctx context.Context, blobs blobcore.Store, engine *domain.RulesEngine) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob backend required")
	}
	mem := memory.NewStore(engine)
	s := &Store{Store: mem, blobs: blobs}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	var snapshot domain.Snapshot
	targets := snapshotBuckets(&snapshot)
	found := false
	for _, bucket := range bucketOrder {
		data, ok, err := s.read(ctx, statePrefix+bucket+".json")
		if err != nil {
			return fmt.Errorf("load %s: %w", bucket, err)
		}
		if !ok {
			continue
		}
		// An undecodable document is discarded rather than surfaced: the
		// store opens with whatever survives and reconciliation restores
		// defaults.
		if err := json.Unmarshal(data, targets[bucket]); err != nil {
			log.Warn().Err(err).Str("bucket", bucket).
				Msg("discarding undecodable snapshot document")
			continue
		}
		found = true
	}
	if found {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool, error) {
	_, rc, err := s.blobs.Get(ctx, key)
	if errors.Is(err, blobcore.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *Store) write(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.blobs.Put(ctx, key, bytes.NewReader(data), blobcore.PutOptions{ContentType: contentType})
	return err
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	buckets := snapshotBuckets(&snapshot)
	for _, bucket := range bucketOrder {
		data, err := json.Marshal(buckets[bucket])
		if err != nil {
			return err
		}
		if err := s.write(ctx, statePrefix+bucket+".json", data, "application/json"); err != nil {
			return fmt.Errorf("persist %s: %w", bucket, err)
		}
	}
	return nil
}

// RunInTransaction commits to memory first, then rewrites the snapshot
// documents. A persistence failure is reported as a PersistError; the
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

// SaveSession writes the session pointer as two scalar documents.
func (s *Store) SaveSession(ctx context.Context, pointer domain.SessionPointer) error {
	if err := s.write(ctx, sessionUserID, []byte(pointer.UserID), "text/plain"); err != nil {
		return err
	}
	return s.write(ctx, sessionRole, []byte(pointer.Role), "text/plain")
}

// LoadSession reads the session pointer, reporting whether one is stored.
func (s *Store) LoadSession(ctx context.Context) (domain.SessionPointer, bool, error) {
	userID, ok, err := s.read(ctx, sessionUserID)
	if err != nil || !ok {
		return domain.SessionPointer{}, false, err
	}
	role, _, err := s.read(ctx, sessionRole)
	if err != nil {
		return domain.SessionPointer{}, false, err
	}
	return domain.SessionPointer{UserID: string(userID), Role: domain.Role(role)}, len(userID) > 0, nil
}

// ClearSession removes both session documents.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.blobs.Delete(ctx, sessionUserID); err != nil {
		return err
	}
	_, err := s.blobs.Delete(ctx, sessionRole)
	return err
}

func outboxKey(classKey string) string {
	return outboxPrefix + url.PathEscape(classKey) + ".json"
}

// Enqueue buffers an attendance payload, overwriting any prior payload for
// the same class key.
func (s *Store) Enqueue(ctx context.Context, payload domain.AttendancePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.write(ctx, outboxKey(payload.ClassDetails.ClassKey()), data, "application/json")
}

// PendingKeys lists the buffered class keys in sorted order.
func (s *Store) PendingKeys(ctx context.Context) ([]string, error) {
	infos, err := s.blobs.List(ctx, outboxPrefix)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		name := strings.TrimSuffix(strings.TrimPrefix(info.Key, outboxPrefix), ".json")
		classKey, err := url.PathUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("decode outbox key %s: %w", info.Key, err)
		}
		keys = append(keys, classKey)
	}
	return keys, nil
}

// Get returns the buffered payload for a class key.
func (s *Store) Get(ctx context.Context, classKey string) (domain.AttendancePayload, bool, error) {
	data, ok, err := s.read(ctx, outboxKey(classKey))
	if err != nil || !ok {
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
	_, err := s.blobs.Delete(ctx, outboxKey(classKey))
	return err
}

// Blobs exposes the underlying blob backend for integration testing hooks.
func (s *Store) Blobs() blobcore.Store { return s.blobs }

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
