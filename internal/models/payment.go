package models

import "time"

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

type PaymentRecord struct {
	ID              int64     `json:"id"`
	OrderRef        string    `json:"order_ref"`
	PaymentID       *string   `json:"payment_id,omitempty"`
	Signature       *string   `json:"-"`
	Amount          int       `json:"amount"`
	Currency        string    `json:"currency"`
	DurationMinutes int       `json:"duration_minutes"`
	UserEmail       *string   `json:"user_email,omitempty"`
	Status          string    `json:"status"`
	SessionID       *int64    `json:"session_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type PaymentOption struct {
	Amount          int    `json:"amount"`
	DurationMinutes int    `json:"duration"`
	Label           string `json:"label"`
}
