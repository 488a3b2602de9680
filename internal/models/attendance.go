package models

import "time"

// VerdictStatus classifies one check-in attempt.
type VerdictStatus string

const (
	// VerdictNoClass means no session covers the check-in instant. This is a
	// valid business outcome, not an error.
	VerdictNoClass VerdictStatus = "no_class"
	// VerdictPresent is an on-time check-in.
	VerdictPresent VerdictStatus = "present"
	// VerdictLate is a check-in after the lateness grace period.
	VerdictLate VerdictStatus = "late"
	// VerdictAbsent means the student was outside the building radius.
	VerdictAbsent VerdictStatus = "absent"
	// VerdictError flags a data-integrity fault, such as a session pointing
	// at a building row that does not exist.
	VerdictError VerdictStatus = "error"
)

// Recordable reports whether the verdict corresponds to an actual attendance
// outcome worth persisting.
func (s VerdictStatus) Recordable() bool {
	switch s {
	case VerdictPresent, VerdictLate, VerdictAbsent:
		return true
	default:
		return false
	}
}

// AttendanceVerdict is the transient outcome of one status resolution. It is
// built fresh on every call and never mutated afterwards; whether to persist
// a record is the caller's decision.
type AttendanceVerdict struct {
	Status   VerdictStatus `json:"status"`
	Session  *ClassSession `json:"session,omitempty"`
	Building *Building     `json:"building,omitempty"`
	Message  string        `json:"message"`
}

// AttendanceRecord is a persisted check-in outcome.
type AttendanceRecord struct {
	ID             string        `db:"id" json:"id"`
	StudentID      string        `db:"student_id" json:"student_id"`
	ScheduleID     *string       `db:"schedule_id" json:"schedule_id,omitempty"`
	Status         VerdictStatus `db:"status" json:"status"`
	CheckInTime    time.Time     `db:"check_in_time" json:"check_in_time"`
	Longitude      float64       `db:"longitude" json:"longitude"`
	Latitude       float64       `db:"latitude" json:"latitude"`
	DistanceMeters *float64      `db:"distance_meters" json:"distance_meters,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// AttendanceRecordFilter scopes record listing queries.
type AttendanceRecordFilter struct {
	StudentID string
	Status    *VerdictStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// AttendanceSummary aggregates a student's record counts.
type AttendanceSummary struct {
	Present int     `db:"present" json:"present"`
	Late    int     `db:"late" json:"late"`
	Absent  int     `db:"absent" json:"absent"`
	Total   int     `db:"total" json:"total"`
	Rate    float64 `json:"rate"`
}
