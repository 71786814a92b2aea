package models

import "time"

// Message is one utterance in a conversation. IsBot distinguishes
// assistant-authored rows from user-authored ones. Rows are append-only
// except for explicit single-row deletion by the owner; ordering is
// (created_at, id) ascending, so serial ids break whole-minute ties in
// insertion order.
type Message struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	IsBot     bool
}
