package models

import "time"

// Account holds the current balance for exactly one user. Balance is in
// integer minor units (paise) and never goes below zero.
type Account struct {
	UserID    int       `json:"user_id" db:"user_id"`
	Balance   int64     `json:"balance" db:"balance"` // in paise
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
