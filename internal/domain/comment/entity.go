package comment

import "time"

type ReferenceType string

const (
	ReferenceAttendance ReferenceType = "attendance"
	ReferenceCheckin    ReferenceType = "checkin"
)

// Comment is a free-text annotation attached to a document.
type Comment struct {
	ID            string
	ReferenceType ReferenceType
	ReferenceID   string
	Content       string
	CreatedAt     time.Time
}
