package services

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/audit"
	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/models"
	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/money"
)

type WalletService struct {
	ledger    *LedgerService
	qr        *QRService
	audit     *audit.Logger
	validator *ValidationHelper
}

// TransferRequest represents a peer to peer transfer
// @Description Transfer request structure
type TransferRequest struct {
	To     int    `json:"to" validate:"required,min=1" example:"2"`         // Recipient user id
	Amount string `json:"amount" validate:"required" example:"150.00"`      // Amount in rupees
}

// AddMoneyRequest represents a wallet top-up
// @Description Add money request structure
type AddMoneyRequest struct {
	Amount string `json:"amount" validate:"required" example:"500.00"` // Amount in rupees
}

// PayViaQRRequest represents a QR payment
// @Description QR payment request structure
type PayViaQRRequest struct {
	QRData string `json:"qrData" validate:"required" example:"eyJwaG9uZSI6Ijk4NzY1NDMyMTAiLi4u"` // Scanned QR token or phone number
	Amount string `json:"amount" validate:"required" example:"99.50"`                            // Amount in rupees
}

func NewWalletService(ledger *LedgerService, qr *QRService, auditLogger *audit.Logger) *WalletService {
	return &WalletService{
		ledger:    ledger,
		qr:        qr,
		audit:     auditLogger,
		validator: NewValidationHelper(),
	}
}

// Balance returns the caller's current balance
// @Summary Get balance
// @Description Get the authenticated user's wallet balance
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Balance fetched"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /account/balance [get]
func (s *WalletService) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	balance, err := s.ledger.Balance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[WALLET] Balance fetch failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	SendJSON(w, http.StatusOK, map[string]string{
		"message": "Account balance fetched successfully",
		"balance": money.FromMinorUnits(balance),
	})
}

// Transfer moves money from the caller to another user
// @Summary Transfer money
// @Description Atomically move money from the authenticated user to another user
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "Transfer request"
// @Success 200 {object} map[string]string "Transfer successful"
// @Failure 400 {object} ErrorResponse "Invalid amount, insufficient balance or unknown recipient"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /account/transfer [post]
func (s *WalletService) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req TransferRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	amount, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		SendErrorResponse(w, "Invalid amount", http.StatusBadRequest, nil)
		return
	}

	newBalance, err := s.ledger.Transfer(r.Context(), userID, req.To, amount)
	if err != nil {
		s.audit.LogError("TRANSFER", userID, err)
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			SendErrorResponse(w, "Insufficient balance", http.StatusBadRequest, nil)
		case errors.Is(err, ErrRecipientNotFound):
			SendErrorResponse(w, "Invalid recipient account", http.StatusBadRequest, nil)
		case errors.Is(err, ErrAccountNotFound):
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		case errors.Is(err, ErrInvalidAmount):
			SendErrorResponse(w, "Invalid amount", http.StatusBadRequest, nil)
		default:
			log.Printf("[WALLET] Transfer failed for user %d: %v", userID, err)
			SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		}
		return
	}

	s.audit.LogMovement(userID, req.To, amount, models.StatusTransfer)
	go s.notifyTransfer(userID, req.To, amount)

	SendJSON(w, http.StatusOK, map[string]string{
		"message": "Transfer successful",
		"balance": money.FromMinorUnits(newBalance),
	})
}

// AddMoney credits the caller's wallet
// @Summary Add money
// @Description Credit the authenticated user's wallet
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddMoneyRequest true "Add money request"
// @Success 200 {object} map[string]string "Money added"
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /account/add-money [post]
func (s *WalletService) AddMoney(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req AddMoneyRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	amount, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		SendErrorResponse(w, "Invalid amount", http.StatusBadRequest, nil)
		return
	}

	newBalance, err := s.ledger.AddMoney(r.Context(), userID, amount)
	if err != nil {
		s.audit.LogError("ADD_MONEY", userID, err)
		switch {
		case errors.Is(err, ErrAccountNotFound):
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		case errors.Is(err, ErrInvalidAmount):
			SendErrorResponse(w, "Invalid amount", http.StatusBadRequest, nil)
		default:
			log.Printf("[WALLET] Add money failed for user %d: %v", userID, err)
			SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		}
		return
	}

	s.audit.LogMovement(userID, userID, amount, models.StatusAddMoney)

	SendJSON(w, http.StatusOK, map[string]string{
		"message": "Money added successfully",
		"balance": money.FromMinorUnits(newBalance),
	})
}

// PayViaQR pays the user encoded in a scanned QR code
// @Summary Pay via QR
// @Description Resolve a scanned QR token to a recipient and transfer the amount
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PayViaQRRequest true "QR payment request"
// @Success 200 {object} map[string]string "Payment successful"
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient balance"
// @Failure 404 {object} ErrorResponse "Receiver not found"
// @Router /account/pay-via-qr [post]
func (s *WalletService) PayViaQR(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req PayViaQRRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	amount, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		SendErrorResponse(w, "Invalid amount", http.StatusBadRequest, nil)
		return
	}

	phone, err := s.qr.Resolve(r.Context(), req.QRData)
	if err != nil {
		SendErrorResponse(w, "Invalid QR code", http.StatusBadRequest, nil)
		return
	}

	newBalance, toUserID, err := s.ledger.PayViaPhone(r.Context(), userID, phone, amount)
	if err != nil {
		s.audit.LogError("PAY_VIA_QR", userID, err)
		switch {
		case errors.Is(err, ErrRecipientNotFound):
			SendErrorResponse(w, "Receiver not found", http.StatusNotFound, nil)
		case errors.Is(err, ErrInsufficientFunds):
			SendErrorResponse(w, "Insufficient balance", http.StatusBadRequest, nil)
		case errors.Is(err, ErrAccountNotFound):
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		case errors.Is(err, ErrInvalidAmount):
			SendErrorResponse(w, "Invalid amount", http.StatusBadRequest, nil)
		default:
			log.Printf("[WALLET] QR payment failed for user %d: %v", userID, err)
			SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		}
		return
	}

	s.audit.LogMovement(userID, toUserID, amount, models.StatusPaidViaQR)

	SendJSON(w, http.StatusOK, map[string]string{
		"message": "Payment successful",
		"balance": money.FromMinorUnits(newBalance),
	})
}

// HistoryResponseItem is the wire form of one ledger record.
type HistoryResponseItem struct {
	ReferenceID string                  `json:"referenceId"`
	From        models.TransactionParty `json:"from"`
	To          models.TransactionParty `json:"to"`
	Amount      string                  `json:"amount"`
	Status      string                  `json:"status"`
	Timestamp   string                  `json:"timestamp"`
}

// History lists the caller's transactions, newest first
// @Summary Transaction history
// @Description List all transactions involving the authenticated user, newest first
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Transaction history"
// @Router /account/transactions [get]
func (s *WalletService) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	records, err := s.ledger.History(r.Context(), userID)
	if err != nil {
		log.Printf("[WALLET] History fetch failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	items := make([]HistoryResponseItem, 0, len(records))
	for _, rec := range records {
		items = append(items, HistoryResponseItem{
			ReferenceID: rec.ReferenceID,
			From:        rec.From,
			To:          rec.To,
			Amount:      money.FromMinorUnits(rec.Amount),
			Status:      rec.Status,
			Timestamp:   rec.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"message":      "Transaction history fetched successfully",
		"transactions": items,
	})
}

// notifyTransfer is a stand-in for the push notification integration.
func (s *WalletService) notifyTransfer(fromUserID, toUserID int, amount int64) {
	log.Printf("[NOTIFY] User %d received %s from user %d", toUserID, money.FromMinorUnits(amount), fromUserID)
}

// userIDFromContext reads the user id placed in the context by the auth
// middleware. The middleware stores it as a string.
func userIDFromContext(r *http.Request) (int, bool) {
	raw, ok := r.Context().Value("userID").(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
