package scores

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/math-hero/backend/internal/game"
	"github.com/math-hero/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// SaveScore handles POST /scores.
func (h *Handler) SaveScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.SaveGame(userID, req)
	if err != nil {
		switch err.Error() {
		case "session_id is required",
			"total_questions must be positive",
			"accuracy must be between 0 and 100":
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save score"})
		}
		return
	}

	status := http.StatusCreated
	if resp.AlreadySaved {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// ListScores handles GET /scores.
func (h *Handler) ListScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	games, err := h.service.ListGames(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get scores"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

// Achievements handles GET /achievements.
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	statuses, err := h.service.AchievementsStatus(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get achievements"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": statuses})
}

// Leaderboard handles GET /leaderboard?level=N&limit=M.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var level *int
	if s := query.Get("level"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || !game.Level(v).Valid() {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level"})
			return
		}
		level = &v
	}

	limit := 20
	if s := query.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}

	resp, err := h.service.Leaderboard(level, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
