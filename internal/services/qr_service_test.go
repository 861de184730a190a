package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func TestQRService_Generate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	service := NewQRService(db, redisClient)
	ctx := context.Background()

	t.Run("generates token and image for known user", func(t *testing.T) {
		mock.ExpectQuery(`SELECT phone_number FROM users WHERE id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"phone_number"}).AddRow("9876543210"))

		redisMock.Regexp().ExpectSet(`qr:.+`, `.+`, 5*time.Minute).SetVal("OK")

		token, pngBase64, err := service.Generate(ctx, 1)
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, pngBase64)

		// The token is the base64 payload itself
		raw, err := base64.StdEncoding.DecodeString(token)
		assert.NoError(t, err)

		var payload QRPayload
		assert.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "9876543210", payload.Phone)
		assert.NotEmpty(t, payload.Nonce)
		assert.NotZero(t, payload.Timestamp)

		// The image is valid base64 of a PNG
		img, err := base64.StdEncoding.DecodeString(pngBase64)
		assert.NoError(t, err)
		assert.Equal(t, "\x89PNG", string(img[:4]))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectQuery(`SELECT phone_number FROM users WHERE id = \$1`).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"phone_number"}))

		_, _, err := service.Generate(ctx, 99)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQRService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("cached token resolves from redis", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		service := NewQRService(nil, redisClient)

		redisMock.ExpectGet("qr:some-token").SetVal("9876543210")

		phone, err := service.Resolve(ctx, "some-token")
		assert.NoError(t, err)
		assert.Equal(t, "9876543210", phone)
	})

	t.Run("expired token falls back to embedded payload", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		service := NewQRService(nil, redisClient)

		raw, _ := json.Marshal(QRPayload{Phone: "9876543210", Nonce: "abc", Timestamp: 1})
		token := base64.StdEncoding.EncodeToString(raw)

		redisMock.ExpectGet("qr:" + token).RedisNil()

		phone, err := service.Resolve(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, "9876543210", phone)
	})

	t.Run("raw phone number passes through without redis", func(t *testing.T) {
		service := NewQRService(nil, nil)

		phone, err := service.Resolve(ctx, "9876543210")
		assert.NoError(t, err)
		assert.Equal(t, "9876543210", phone)
	})

	t.Run("empty data is rejected", func(t *testing.T) {
		service := NewQRService(nil, nil)

		_, err := service.Resolve(ctx, "")
		assert.Error(t, err)
	})
}
