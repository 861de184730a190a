// Package audit emits structured JSON events for every ledger mutation, so
// money movement can be traced independently of the request logs.
package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	UserID    int       `json:"user_id"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	Details   any       `json:"details"`
}

type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

// LogMovement records a committed balance mutation. Status is the ledger
// record label ("Transfer", "Add Money", "Paid via QR").
func (a *Logger) LogMovement(fromUserID, toUserID int, amount int64, status string) {
	event := Event{
		Timestamp: time.Now(),
		EventType: "MOVEMENT",
		UserID:    fromUserID,
		Amount:    amount,
		Status:    status,
		Details: map[string]int{
			"from_user": fromUserID,
			"to_user":   toUserID,
		},
	}
	a.log(event)
}

func (a *Logger) LogError(operation string, userID int, err error) {
	event := Event{
		Timestamp: time.Now(),
		EventType: operation,
		UserID:    userID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	}
	a.log(event)
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
