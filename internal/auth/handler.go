package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/math-hero/backend/internal/models"
)

// SessionCookie carries the signed session token between requests.
const SessionCookie = "mathhero_session"

const maxNameLength = 50

type Handler struct {
	db            *sql.DB
	secret        []byte
	sessionTTL    time.Duration
	secureCookies bool
}

func NewHandler(db *sql.DB, secret []byte, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{db: db, secret: secret, sessionTTL: sessionTTL, secureCookies: secureCookies}
}

// CreateUser registers a player. Accounts are name + avatar only,
// with no credentials, so creating one immediately starts a session.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Name is required"})
		return
	}
	if len(req.Name) > maxNameLength {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Name is too long"})
		return
	}
	if req.Avatar == "" {
		req.Avatar = models.DefaultAvatar
	}

	var user models.User
	err := h.db.QueryRow(
		`INSERT INTO users (name, avatar, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, avatar, best_streak, days_played, created_at, updated_at`,
		req.Name, req.Avatar, time.Now(), time.Now(),
	).Scan(&user.ID, &user.Name, &user.Avatar, &user.BestStreak,
		pq.Array(&user.DaysPlayed), &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create user"})
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, models.SessionResponse{Token: token, User: user})
}

// GetSession reports who the current session belongs to, or
// {"user_id": null} when there is none. It never fails; the welcome
// screen calls it before any user exists.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": nil})
		return
	}

	userID, err := ParseToken(token, h.secret)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID})
}

// DeleteSession clears the session cookie.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var user models.User
	err := h.db.QueryRow(
		`SELECT id, name, avatar, best_streak, days_played, created_at, updated_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Name, &user.Avatar, &user.BestStreak,
		pq.Array(&user.DaysPlayed), &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}
	if user.DaysPlayed == nil {
		user.DaysPlayed = []string{}
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) generateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.sessionTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest pulls the session token from the cookie or, for
// non-browser clients, an Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// ParseToken validates a session token and returns the user id.
func ParseToken(tokenString string, secret []byte) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}

	uid, ok := claims["user_id"].(float64)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return int64(uid), nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
