package models

import "time"

// Quote is a draft while Completed is false and published once it is true.
// Timestamp is only set when the draft is submitted.
type Quote struct {
	ID          int64      `json:"id" db:"id"`
	Quote       string     `json:"quote" db:"quote"`
	Author      string     `json:"author" db:"author"`
	Explanation string     `json:"explanation" db:"explanation"`
	Section     string     `json:"section" db:"section"`
	OwnerID     int64      `json:"-" db:"owner_id"`
	Timestamp   *time.Time `json:"timestamp,omitempty" db:"timestamp"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (q *Quote) IsDraft() bool {
	return !q.Completed
}
