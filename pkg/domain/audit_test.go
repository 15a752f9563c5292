package domain

import (
	"testing"
	"time"
)

func TestAuditRecordRoundTrip(t *testing.T) {
	entry := AuditLogEntry{
		ID:        "a1",
		Timestamp: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
		ActorID:   "T001",
		Action:    "added student Arun Kumar (URK23CS1001)",
		Category:  AuditStudent,
	}
	record := entry.Record()
	if record.Timestamp != "2026-08-30T09:15:00Z" {
		t.Fatalf("expected RFC3339 timestamp, got %s", record.Timestamp)
	}
	back := record.Rehydrate()
	if back != entry {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, entry)
	}
}

func TestAuditRecordRehydrateBadTimestamp(t *testing.T) {
	record := AuditRecord{ID: "a2", Timestamp: "yesterday", ActorID: "T001", Action: "x", Category: AuditLeave}
	entry := record.Rehydrate()
	if !entry.Timestamp.IsZero() {
		t.Fatalf("unparseable timestamp should rehydrate to zero time, got %v", entry.Timestamp)
	}
	if entry.ID != "a2" || entry.Category != AuditLeave {
		t.Fatalf("remaining fields should survive: %+v", entry)
	}
}
