package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/math-hero/backend/internal/models"
)

// StartingLives is how many misses a round survives. The star rating in
// the scores service keys off the same value.
const StartingLives = 3

const (
	roundLength = 10

	// sessionTTL bounds how long an abandoned round is kept in memory.
	sessionTTL    = 30 * time.Minute
	sweepInterval = 5 * time.Minute
)

// TimeoutAnswer is the sentinel the client submits when the countdown
// hits zero. It is scored exactly like a wrong answer.
const TimeoutAnswer = -1

// Session is one live round for one player.
type Session struct {
	ID            string
	UserID        int64
	Level         Level
	Score         int
	Lives         int
	QuestionIndex int
	Current       models.Question
	TimeLimit     int
	History       []models.QuestionHistory
	FailedKeys    []string
	Finished      bool
	LastTouched   time.Time
}

// Manager owns the live rounds. All state is behind one mutex; rounds
// are small and short-lived, so contention is not a concern.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start begins a round at the given level and deals the first question.
func (m *Manager) Start(userID int64, level Level) (*models.StartGameResponse, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("level must be between 1 and %d", NumLevels)
	}

	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	s := &Session{
		ID:          id,
		UserID:      userID,
		Level:       level,
		Lives:       StartingLives,
		Current:     GenerateQuestion(level, nil),
		TimeLimit:   GetTimeLimit(level, 0),
		LastTouched: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	return &models.StartGameResponse{
		GameID:    s.ID,
		Level:     int(s.Level),
		Lives:     s.Lives,
		Question:  s.Current,
		TimeLimit: s.TimeLimit,
	}, nil
}

// Answer scores one submission for the round. A timed-out question is
// submitted as TimeoutAnswer and treated as wrong. The round ends after
// roundLength questions or when the player runs out of lives; the final
// response carries a summary shaped for the save endpoint.
func (m *Manager) Answer(sessionID string, userID int64, answer, timeLeft int) (*models.AnswerResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, fmt.Errorf("game not found")
	}
	if s.Finished {
		return nil, fmt.Errorf("game already finished")
	}

	correct := answer == s.Current.Correct
	points := CalculatePoints(correct, timeLeft)
	s.Score += points

	timeSpent := s.TimeLimit - timeLeft
	if timeSpent < 0 {
		timeSpent = 0
	}

	key := QuestionKey(s.Current.A, s.Current.B)
	s.History = append(s.History, models.QuestionHistory{
		Question:      key,
		A:             s.Current.A,
		B:             s.Current.B,
		UserAnswer:    answer,
		CorrectAnswer: s.Current.Correct,
		IsCorrect:     correct,
		TimeSpent:     float64(timeSpent),
	})

	if !correct {
		s.Lives--
		s.FailedKeys = append(s.FailedKeys, key)
	}

	resp := &models.AnswerResponse{
		Correct:       correct,
		CorrectAnswer: s.Current.Correct,
		Points:        points,
		Score:         s.Score,
		Lives:         s.Lives,
	}

	answered := len(s.History)
	if s.Lives <= 0 || answered >= roundLength {
		s.Finished = true
		resp.GameOver = true
		resp.Summary = s.summary()
		delete(m.sessions, sessionID)
		return resp, nil
	}

	s.QuestionIndex++
	s.Current = GenerateQuestion(s.Level, s.FailedKeys)
	s.TimeLimit = GetTimeLimit(s.Level, s.QuestionIndex)
	s.LastTouched = time.Now()

	q := s.Current
	resp.Question = &q
	resp.TimeLimit = s.TimeLimit
	return resp, nil
}

func (s *Session) summary() *models.GameSummary {
	correct := 0
	var failed []models.FailedQuestion
	for _, h := range s.History {
		if h.IsCorrect {
			correct++
		} else {
			failed = append(failed, models.FailedQuestion{
				Question:      h.Question,
				UserAnswer:    h.UserAnswer,
				CorrectAnswer: h.CorrectAnswer,
			})
		}
	}

	total := len(s.History)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	return &models.GameSummary{
		SessionID:       s.ID,
		Level:           int(s.Level),
		Score:           s.Score,
		Accuracy:        accuracy,
		LivesRemaining:  s.Lives,
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		FailedQuestions: failed,
		History:         s.History,
	}
}

// StartSweeper drops abandoned rounds until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Println("[game] session sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[game] session sweeper shutting down")
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if now.Sub(s.LastTouched) > sessionTTL {
			delete(m.sessions, id)
		}
	}
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
