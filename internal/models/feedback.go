package models

import "time"

// Feedback is a free-form report submitted by a student.
type Feedback struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Category  string    `db:"category" json:"category"`
	Content   string    `db:"content" json:"content"`
	Contact   *string   `db:"contact" json:"contact,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
