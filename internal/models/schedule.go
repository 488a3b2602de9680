package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Weekday indices run Monday=0 through Sunday=6 across the whole service.
// time.Weekday counts Sunday=0, so every conversion goes through MondayIndex.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// ClockTime is a wall-clock time of day without a date component, as stored
// in the schedule's TIME columns.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS".
func ParseClockTime(raw string) (ClockTime, error) {
	var ct ClockTime
	var sec int
	n, err := fmt.Sscanf(raw, "%d:%d:%d", &ct.Hour, &ct.Minute, &sec)
	if err != nil && n < 2 {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", raw, err)
	}
	if ct.Hour < 0 || ct.Hour > 23 || ct.Minute < 0 || ct.Minute > 59 {
		return ClockTime{}, fmt.Errorf("clock time %q out of range", raw)
	}
	return ct, nil
}

// Minutes returns the minute-of-day count used for window matching.
func (ct ClockTime) Minutes() int {
	return ct.Hour*60 + ct.Minute
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", ct.Hour, ct.Minute)
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as strings,
// []byte or time.Time depending on the driver path.
func (ct *ClockTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		ct.Hour = v.Hour()
		ct.Minute = v.Minute()
		return nil
	case []byte:
		parsed, err := ParseClockTime(string(v))
		if err != nil {
			return err
		}
		*ct = parsed
		return nil
	case string:
		parsed, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*ct = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", value)
	}
}

// Value implements driver.Valuer.
func (ct ClockTime) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", ct.Hour, ct.Minute), nil
}

// MarshalJSON renders the time as "HH:MM".
func (ct ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ct.String())
}

// UnmarshalJSON accepts "HH:MM" or "HH:MM:SS".
func (ct *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

// ClassSession is the read model for one weekly recurring class meeting of a
// student, flattened from the enrollment/schedule/course join. Start is
// strictly before end; overlap prevention is the scheduler's job upstream.
type ClassSession struct {
	ScheduleID   string    `db:"schedule_id" json:"schedule_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	CourseCode   string    `db:"course_code" json:"course_code"`
	CourseName   string    `db:"course_name" json:"course_name"`
	CourseNameEN *string   `db:"course_name_en" json:"course_name_en,omitempty"`
	TeacherName  string    `db:"teacher_name" json:"teacher_name"`
	DayOfWeek    int       `db:"day_of_week" json:"day_of_week"`
	StartTime    ClockTime `db:"start_time" json:"start_time"`
	EndTime      ClockTime `db:"end_time" json:"end_time"`
	BuildingID   string    `db:"building_id" json:"building_id"`
	Classroom    string    `db:"classroom" json:"classroom"`
}

// Contains reports whether the minute-of-day falls inside the session window.
// Both boundaries are inclusive: a class is in session at its exact start and
// end minute.
func (s *ClassSession) Contains(minuteOfDay int) bool {
	return s.StartTime.Minutes() <= minuteOfDay && minuteOfDay <= s.EndTime.Minutes()
}
