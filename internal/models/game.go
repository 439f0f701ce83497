package models

import "time"

// ── Round Types ──────────────────────────────────────────

// Question is one multiple-choice multiplication question. The options
// always contain exactly one value equal to Correct.
type Question struct {
	A       int   `json:"a"`
	B       int   `json:"b"`
	Correct int   `json:"correct"`
	Options []int `json:"options"`
}

// QuestionHistory is one answered question within a round.
// UserAnswer is -1 when the player ran out of time.
type QuestionHistory struct {
	Question      string  `json:"question"` // "AxB", order-preserving
	A             int     `json:"a"`
	B             int     `json:"b"`
	UserAnswer    int     `json:"user_answer"`
	CorrectAnswer int     `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	TimeSpent     float64 `json:"time_spent"`
}

type FailedQuestion struct {
	Question      string `json:"question"`
	UserAnswer    int    `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
}

// ── Persisted Game Record ────────────────────────────────

type GameScore struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	SessionID       string           `json:"session_id"`
	Level           int              `json:"level"`
	Score           int              `json:"score"`
	Accuracy        float64          `json:"accuracy"`
	LivesRemaining  int              `json:"lives_remaining"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	BestStreak      int              `json:"best_streak"`
	FailedQuestions []FailedQuestion `json:"failed_questions"`
	PlayedAt        time.Time        `json:"played_at"`
}

// ── Request Types ────────────────────────────────────────

type StartGameRequest struct {
	Level int `json:"level"`
}

type AnswerRequest struct {
	Answer   int `json:"answer"`
	TimeLeft int `json:"time_left"`
}

// SaveScoreRequest saves a finished round. SessionID is a
// client-generated idempotency key: resubmitting the same round is a
// no-op on the server side.
type SaveScoreRequest struct {
	SessionID       string            `json:"session_id"`
	Level           int               `json:"level"`
	Score           int               `json:"score"`
	Accuracy        float64           `json:"accuracy"`
	LivesRemaining  int               `json:"lives_remaining"`
	TotalQuestions  int               `json:"total_questions"`
	CorrectAnswers  int               `json:"correct_answers"`
	FailedQuestions []FailedQuestion  `json:"failed_questions"`
	History         []QuestionHistory `json:"history"`
}

// ── Response Types ───────────────────────────────────────

type StartGameResponse struct {
	GameID    string   `json:"game_id"`
	Level     int      `json:"level"`
	Lives     int      `json:"lives"`
	Question  Question `json:"question"`
	TimeLimit int      `json:"time_limit"`
}

type AnswerResponse struct {
	Correct       bool         `json:"correct"`
	CorrectAnswer int          `json:"correct_answer"`
	Points        int          `json:"points"`
	Score         int          `json:"score"`
	Lives         int          `json:"lives"`
	GameOver      bool         `json:"game_over"`
	Question      *Question    `json:"question,omitempty"`
	TimeLimit     int          `json:"time_limit,omitempty"`
	Summary       *GameSummary `json:"summary,omitempty"`
}

// GameSummary is returned once a round ends; its fields map onto
// SaveScoreRequest so the client can submit it as-is.
type GameSummary struct {
	SessionID       string            `json:"session_id"`
	Level           int               `json:"level"`
	Score           int               `json:"score"`
	Accuracy        float64           `json:"accuracy"`
	LivesRemaining  int               `json:"lives_remaining"`
	TotalQuestions  int               `json:"total_questions"`
	CorrectAnswers  int               `json:"correct_answers"`
	FailedQuestions []FailedQuestion  `json:"failed_questions"`
	History         []QuestionHistory `json:"history"`
}

type SaveScoreResponse struct {
	Game            GameScore `json:"game"`
	Stars           int       `json:"stars"`
	AlreadySaved    bool      `json:"already_saved"`
	NewAchievements []string  `json:"new_achievements"`
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	TotalGames int    `json:"total_games"`
	BestScore  int    `json:"best_score"`
	TotalScore int    `json:"total_score"`
}

type LeaderboardResponse struct {
	Level   *int               `json:"level,omitempty"`
	Entries []LeaderboardEntry `json:"entries"`
}
