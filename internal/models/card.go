package models

import "time"

// Card is a catalog entry a learner can review. The engine only needs its
// identity; front/back text is carried for the host application.
type Card struct {
	ID        int64     `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}
