package models

import "time"

// Transaction record status labels. A record is written exactly once, in the
// same database transaction as the balance mutation it describes.
const (
	StatusTransfer  = "Transfer"
	StatusAddMoney  = "Add Money"
	StatusPaidViaQR = "Paid via QR"
)

// TransactionParty identifies one side of a ledger record.
type TransactionParty struct {
	UserID    int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

// TransactionRecord is an immutable ledger entry. Amount is in minor units.
// For top-ups From and To reference the same user.
type TransactionRecord struct {
	ReferenceID string           `json:"reference_id"`
	From        TransactionParty `json:"from"`
	To          TransactionParty `json:"to"`
	Amount      int64            `json:"amount"` // in paise
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
}
