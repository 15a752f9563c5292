package domain

import "time"

// AuditCategory tags each audit entry with the area of the portal it touched.
type AuditCategory string

// Audit categories recognised by the portal's administrative views.
const (
	AuditStudent      AuditCategory = "student"
	AuditTeacher      AuditCategory = "teacher"
	AuditAnnouncement AuditCategory = "announcement"
	AuditAttendance   AuditCategory = "attendance"
	AuditLeave        AuditCategory = "leave"
	AuditAcademic     AuditCategory = "academic"
)

// AuditTimeLayout is the portable textual form audit timestamps take in the
// persisted snapshot.
const AuditTimeLayout = time.RFC3339

// AuditLogEntry is one immutable row of the append-only audit trail. Entries
// are never updated or deleted; reads return them newest-first.
type AuditLogEntry struct {
	ID        string
	Timestamp time.Time
	ActorID   string
	Action    string
	Category  AuditCategory
}

// AuditRecord is the snapshot form of an audit entry, with the timestamp
// flattened to its portable textual representation.
type AuditRecord struct {
	ID        string        `json:"id"`
	Timestamp string        `json:"timestamp"`
	ActorID   string        `json:"actorId"`
	Action    string        `json:"action"`
	Category  AuditCategory `json:"category"`
}

// Record flattens the entry for persistence.
func (e AuditLogEntry) Record() AuditRecord {
	return AuditRecord{
		ID:        e.ID,
		Timestamp: e.Timestamp.UTC().Format(AuditTimeLayout),
		ActorID:   e.ActorID,
		Action:    e.Action,
		Category:  e.Category,
	}
}

// Rehydrate parses the portable timestamp back into a time value. Records with
// unparseable timestamps keep a zero time rather than failing the whole load.
func (r AuditRecord) Rehydrate() AuditLogEntry {
	ts, err := time.Parse(AuditTimeLayout, r.Timestamp)
	if err != nil {
		ts = time.Time{}
	}
	return AuditLogEntry{
		ID:        r.ID,
		Timestamp: ts,
		ActorID:   r.ActorID,
		Action:    r.Action,
		Category:  r.Category,
	}
}
