package model

import "time"

// Suggestion is a message left in an account's suggestion box. Suggestions are
// never edited after creation; they are only removed by explicit deletion.
type Suggestion struct {
	ID        int64
	Username  string
	Message   string
	CreatedAt time.Time
}
