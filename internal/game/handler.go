package game

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/math-hero/backend/internal/models"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// StartGame handles POST /games.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.manager.Start(userID, Level(req.Level))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Answer handles POST /games/{id}/answer.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	gameID := mux.Vars(r)["id"]

	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.manager.Answer(gameID, userID, req.Answer, req.TimeLeft)
	if err != nil {
		switch err.Error() {
		case "game not found":
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		case "game already finished":
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit answer"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
