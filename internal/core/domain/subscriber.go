package domain

import "time"

// Subscriber is an address on the launch waitlist.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"-"`
}
