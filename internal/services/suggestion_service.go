package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/models"
	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/money"
)

// SuggestionService proposes likely next payments from the user's history.
// It asks the Gemini API first and falls back to a local frequency heuristic
// when the model is unreachable or returns garbage.
type SuggestionService struct {
	ledger  *LedgerService
	apiKey  string
	baseURL string
	client  *http.Client
}

// Suggestion is one proposed payment
// @Description Suggested recipient and amount
type Suggestion struct {
	Recipient string `json:"recipient" example:"friend@example.com"` // Suggested recipient username
	Amount    string `json:"amount" example:"250.00"`                // Suggested amount in rupees
}

func NewSuggestionService(ledger *LedgerService) *SuggestionService {
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")

	return &SuggestionService{
		ledger:  ledger,
		apiKey:  viper.GetString("gemini.api_key"),
		baseURL: viper.GetString("gemini.base_url"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SmartSuggestion returns suggested payments for the authenticated user
// @Summary Smart payment suggestions
// @Description Suggest recipients and amounts based on the user's transaction history
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Suggestions"
// @Router /account/smart-suggestion [post]
func (s *SuggestionService) SmartSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	records, err := s.ledger.History(r.Context(), userID)
	if err != nil {
		log.Printf("[SUGGEST] History fetch failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	outgoing := outgoingTransfers(records, userID)
	if len(outgoing) == 0 {
		SendJSON(w, http.StatusOK, map[string]any{
			"message":     "No transaction history yet",
			"suggestions": []Suggestion{},
		})
		return
	}

	suggestions, err := s.askGemini(r.Context(), outgoing)
	if err != nil {
		log.Printf("[SUGGEST] Gemini unavailable for user %d, using frequency fallback: %v", userID, err)
		suggestions = frequencySuggestions(outgoing)
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"message":     "Suggestions generated successfully",
		"suggestions": suggestions,
	})
}

// outgoingTransfers keeps only records where the user sent money to someone
// else, the signal the suggestions are built from.
func outgoingTransfers(records []models.TransactionRecord, userID int) []models.TransactionRecord {
	out := make([]models.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if rec.From.UserID == userID && rec.To.UserID != userID {
			out = append(out, rec)
		}
	}
	return out
}

func (s *SuggestionService) askGemini(ctx context.Context, records []models.TransactionRecord) ([]Suggestion, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	var sb strings.Builder
	sb.WriteString("You are a payments assistant. Given this list of past transfers, ")
	sb.WriteString("suggest up to 2 likely next payments. Respond with ONLY a JSON array ")
	sb.WriteString(`of objects like [{"recipient":"<username>","amount":"<rupees>"}].` + "\n\nTransfers:\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "- to %s, amount %s\n", rec.To.Username, money.FromMinorUnits(rec.Amount))
	}

	reqBody, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": sb.String()}}},
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/gemini-2.0-flash:generateContent?key=%s", s.baseURL, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, err
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	match := jsonArrayPattern.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no JSON array in gemini response")
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(match), &suggestions); err != nil {
		return nil, fmt.Errorf("malformed suggestion array: %w", err)
	}
	if len(suggestions) > 2 {
		suggestions = suggestions[:2]
	}

	return suggestions, nil
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// frequencySuggestions picks the two most frequent recipients and suggests
// each one's average transfer amount, defaulting to 100 rupees.
func frequencySuggestions(records []models.TransactionRecord) []Suggestion {
	type stats struct {
		username string
		count    int
		total    int64
	}

	byRecipient := map[string]*stats{}
	for _, rec := range records {
		st, ok := byRecipient[rec.To.Username]
		if !ok {
			st = &stats{username: rec.To.Username}
			byRecipient[rec.To.Username] = st
		}
		st.count++
		st.total += rec.Amount
	}

	ranked := make([]*stats, 0, len(byRecipient))
	for _, st := range byRecipient {
		ranked = append(ranked, st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].username < ranked[j].username
	})

	if len(ranked) > 2 {
		ranked = ranked[:2]
	}

	suggestions := make([]Suggestion, 0, len(ranked))
	for _, st := range ranked {
		amount := int64(100 * 100)
		if st.count > 0 && st.total > 0 {
			amount = st.total / int64(st.count)
		}
		suggestions = append(suggestions, Suggestion{
			Recipient: st.username,
			Amount:    money.FromMinorUnits(amount),
		})
	}

	return suggestions
}
