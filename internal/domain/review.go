package domain

import "time"

// ReviewerProfile is the slice of the reviewer's profile embedded into a
// review row by the remote service (profiles:user_id relation).
type ReviewerProfile struct {
	Email string `json:"email"`
}

type Review struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	UserID    string           `json:"user_id"`
	Rating    int              `json:"rating"`
	Comment   string           `json:"comment"`
	CreatedAt time.Time        `json:"created_at"`
	Profile   *ReviewerProfile `json:"profiles,omitempty"`
}
