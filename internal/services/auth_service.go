package services

import (
	cryptorand "crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"

	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/models"
)

type AuthService struct {
	db        *sql.DB
	redis     *redis.Client
	ledger    *LedgerService
	validator *ValidationHelper
}

// SignupRequest represents the signup request payload
// @Description Signup request structure
type SignupRequest struct {
	Username  string `json:"username" validate:"required,email,min=4" example:"user@example.com"` // Login email
	Firstname string `json:"firstname" validate:"required,max=20" example:"John"`                 // First name
	Lastname  string `json:"lastname" validate:"required,max=20" example:"Doe"`                   // Last name
	Password  string `json:"password" validate:"required,min=6" example:"Password123"`            // Password
	PhoneNo   string `json:"Phone_No" validate:"required,numeric,min=10,max=15" example:"9876543210"`
}

// SigninRequest represents the login request payload
// @Description Signin request structure
type SigninRequest struct {
	Username string `json:"username" validate:"required,email,min=4" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"Password123"`
}

// UpdateRequest carries the mutable profile fields; all optional.
type UpdateRequest struct {
	Firstname string `json:"firstname" validate:"omitempty,max=20"`
	Lastname  string `json:"lastname" validate:"omitempty,max=20"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	PhoneNo   string `json:"Phone_No" validate:"omitempty,numeric,min=10,max=15"`
}

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Message string `json:"message" example:"User created successfully"`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // JWT token
}

func NewAuthService(db *sql.DB, redisClient *redis.Client, ledger *LedgerService) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		ledger:    ledger,
		validator: NewValidationHelper(),
	}
}

// Signup handles user registration
// @Summary Register a new user
// @Description Create a user and its wallet account (seeded with a random starting balance) in one transaction
// @Tags user
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup request"
// @Success 201 {object} AuthResponse "User created successfully"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Username or phone already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /user/signup [post]
func (s *AuthService) Signup(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Signup attempt from IP: %s", r.RemoteAddr)

	var req SignupRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		log.Printf("[AUTH] Signup validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		log.Printf("[AUTH] Password hashing failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("[AUTH] Transaction start failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}
	defer tx.Rollback()

	var userID int
	err = tx.QueryRow(`
		INSERT INTO users (username, password, first_name, last_name, phone_number)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		strings.ToLower(req.Username), hashedPassword, req.Firstname, req.Lastname, req.PhoneNo,
	).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Printf("[AUTH] Duplicate signup for %s", req.Username)
			SendErrorResponse(w, "Username/email already exists", http.StatusConflict, nil)
			return
		}
		log.Printf("[AUTH] User creation failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	balance, err := s.ledger.SeedAccount(tx, userID)
	if err != nil {
		log.Printf("[AUTH] Account creation failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	if err = tx.Commit(); err != nil {
		log.Printf("[AUTH] Signup commit failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] User created - ID: %d, username: %s, opening balance: %d paise", userID, req.Username, balance)

	token, err := generateJWT(userID)
	if err != nil {
		log.Printf("[AUTH] JWT generation failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	SendJSON(w, http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		Token:   token,
	})
}

// Signin handles user authentication
// @Summary Login user
// @Description Authenticate with username (email) and password
// @Tags user
// @Accept json
// @Produce json
// @Param request body SigninRequest true "Signin request"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /user/signin [post]
func (s *AuthService) Signin(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Signin attempt from IP: %s", r.RemoteAddr)

	var req SigninRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		log.Printf("[AUTH] Signin validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var userID int
	var hashedPassword string
	err := s.db.QueryRow(`SELECT id, password FROM users WHERE username = $1`,
		strings.ToLower(req.Username)).Scan(&userID, &hashedPassword)
	if err != nil {
		log.Printf("[AUTH] User not found: %s", req.Username)
		SendErrorResponse(w, "Invalid username or Please Signup", http.StatusUnauthorized, nil)
		return
	}

	if !verifyPassword(req.Password, hashedPassword) {
		log.Printf("[AUTH] Invalid password for user: %s", req.Username)
		SendErrorResponse(w, "Invalid password", http.StatusUnauthorized, nil)
		return
	}

	token, err := generateJWT(userID)
	if err != nil {
		log.Printf("[AUTH] JWT generation failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] Login successful for user %d", userID)
	SendJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
	})
}

// Update changes the caller's names, phone number or password
// @Summary Update profile
// @Description Update names, phone number or password of the authenticated user
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateRequest true "Fields to update"
// @Success 200 {object} map[string]string "Updated fields"
// @Failure 400 {object} ErrorResponse "No valid fields to update"
// @Router /user/update [put]
func (s *AuthService) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req UpdateRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Error while updating information", http.StatusBadRequest, err)
		return
	}

	sets := []string{}
	args := []interface{}{}
	updated := []string{}
	argIndex := 1

	add := func(column, field, value string) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		updated = append(updated, field)
		argIndex++
	}

	if req.Firstname != "" {
		add("first_name", "firstname", req.Firstname)
	}
	if req.Lastname != "" {
		add("last_name", "lastname", req.Lastname)
	}
	if req.PhoneNo != "" {
		add("phone_number", "Phone_No", req.PhoneNo)
	}
	if req.Password != "" {
		hashed, err := hashPassword(req.Password)
		if err != nil {
			SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
			return
		}
		add("password", "password", hashed)
	}

	if len(sets) == 0 {
		SendErrorResponse(w, "No valid fields to update", http.StatusBadRequest, nil)
		return
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
	args = append(args, userID)

	if _, err := s.db.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			SendErrorResponse(w, "Phone number already in use", http.StatusConflict, nil)
			return
		}
		log.Printf("[AUTH] Profile update failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] Profile updated for user %d: %s", userID, strings.Join(updated, ", "))
	SendJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Updated fields: %s", strings.Join(updated, ", ")),
	})
}

// Search lists users matching a filter on name, username or phone
// @Summary Search users
// @Description Case-insensitive search over username, names and phone number
// @Tags user
// @Produce json
// @Param filter query string false "Substring filter"
// @Success 200 {object} map[string]interface{} "Matching users"
// @Router /user/search [get]
func (s *AuthService) Search(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	rows, err := s.db.Query(`
		SELECT id, username, first_name, last_name, phone_number
		FROM users
		WHERE username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR phone_number ILIKE $1
		ORDER BY id`,
		"%"+filter+"%")
	if err != nil {
		log.Printf("[AUTH] User search failed: %v", err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.PhoneNumber); err != nil {
			SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
			return
		}
		users = append(users, u)
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"message": "Users fetched successfully",
		"users":   users,
	})
}

// Profile returns the authenticated user's record
// @Summary Get profile
// @Description Get the authenticated user's identity record
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]models.User "User profile"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user/profile [get]
func (s *AuthService) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var u models.User
	err := s.db.QueryRow(`
		SELECT id, username, first_name, last_name, phone_number
		FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.PhoneNumber)
	if err == sql.ErrNoRows {
		SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Profile fetch failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	SendJSON(w, http.StatusOK, map[string]any{"user": u})
}

// Logout blacklists the presented token until its natural expiry
// @Summary Logout user
// @Description Logout user and blacklist the bearer token
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logout successful"
// @Router /auth/logout [post]
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token != "" && s.redis != nil {
			key := fmt.Sprintf("blacklist:%s", token)
			expiry := time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour
			if err := s.redis.Set(r.Context(), key, "1", expiry).Err(); err != nil {
				log.Printf("[AUTH] Failed to blacklist token: %v", err)
			}
		}
	}

	SendJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func generateJWT(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return string(hash) == string(computedHash)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// decodeStrict reads a single JSON object with the shared size cap and
// unknown-field rejection. Writes the error response itself on failure.
func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) bool {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	return true
}
