package domain

import "time"

// Feedback is a message left through the public feedback form
type Feedback struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Message    string     `json:"feedback" db:"feedback"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	NotifiedAt *time.Time `json:"notifiedAt,omitempty" db:"notified_at"`
}
