package services

import (
	"bytes"
	"context"
	cryptorand "crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
)

const qrTokenTTL = 5 * time.Minute

type QRService struct {
	db    *sql.DB
	redis *redis.Client
}

// QRPayload is the JSON document encoded into a payment QR code.
type QRPayload struct {
	Phone     string `json:"phone"`
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
}

func NewQRService(db *sql.DB, redisClient *redis.Client) *QRService {
	return &QRService{db: db, redis: redisClient}
}

// Generate produces a fresh payment QR code for the given user. The token is
// the base64-encoded payload; it is cached in Redis for replay detection and
// rendered as a PNG.
func (s *QRService) Generate(ctx context.Context, userID int) (token string, pngBase64 string, err error) {
	var phone string
	err = s.db.QueryRowContext(ctx, `SELECT phone_number FROM users WHERE id = $1`, userID).Scan(&phone)
	if err == sql.ErrNoRows {
		return "", "", ErrAccountNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch phone number: %w", err)
	}

	nonce, err := generateNonce()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	payload := QRPayload{
		Phone:     phone,
		Nonce:     nonce,
		Timestamp: time.Now().Unix(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	token = base64.StdEncoding.EncodeToString(raw)

	if s.redis != nil {
		key := fmt.Sprintf("qr:%s", token)
		if err := s.redis.Set(ctx, key, phone, qrTokenTTL).Err(); err != nil {
			log.Printf("[QR] Failed to cache QR token for user %d: %v", userID, err)
		}
	}

	code, err := qrcode.New(token, qrcode.Medium)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code.Image(256)); err != nil {
		return "", "", fmt.Errorf("failed to encode QR image: %w", err)
	}

	return token, base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Resolve maps scanned QR data back to the recipient's phone number. Tokens
// are looked up in Redis first; when Redis is unavailable or the key has
// expired the embedded payload is decoded directly, and anything that is not
// a token is treated as a raw phone number so static printed codes keep
// working.
func (s *QRService) Resolve(ctx context.Context, qrData string) (string, error) {
	if qrData == "" {
		return "", fmt.Errorf("empty QR data")
	}

	if s.redis != nil {
		key := fmt.Sprintf("qr:%s", qrData)
		if phone, err := s.redis.Get(ctx, key).Result(); err == nil {
			return phone, nil
		}
	}

	if raw, err := base64.StdEncoding.DecodeString(qrData); err == nil {
		var payload QRPayload
		if err := json.Unmarshal(raw, &payload); err == nil && payload.Phone != "" {
			return payload.Phone, nil
		}
	}

	return qrData, nil
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := cryptorand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
