package models

import "time"

// ── Evaluation Snapshots ─────────────────────────────────

// GameStats aggregates one finished round. Computed fresh from the
// round's history each time; never persisted directly.
type GameStats struct {
	Correct   int
	Total     int
	Streak    int // longest run of consecutive correct answers
	AvgTime   float64
	Score     int
	Accuracy  float64
	Level     int
	PlayedAt  time.Time
	Questions []QuestionHistory
}

// UserStats aggregates a player's full history for one evaluation
// call. GamesHistory is ordered most recent first; when evaluation
// runs right after a save, GamesHistory[0] is the just-finished game.
type UserStats struct {
	UserID               int64
	BestScore            int
	BestStreak           int
	TotalGames           int
	DaysPlayed           []string // ISO dates, deduplicated
	AchievementsUnlocked []string
	GamesHistory         []GameScore
}

// ── Achievement Display Types ────────────────────────────

type AchievementCategory string

const (
	CategoryStreak      AchievementCategory = "streak"
	CategoryPrecision   AchievementCategory = "precision"
	CategorySpeed       AchievementCategory = "speed"
	CategoryScore       AchievementCategory = "score"
	CategoryPersistence AchievementCategory = "persistence"
	CategoryMastery     AchievementCategory = "mastery"
)

type AchievementProgress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}

// AchievementStatus is the wire shape for the achievements screen.
type AchievementStatus struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Category    AchievementCategory  `json:"category"`
	Unlocked    bool                 `json:"unlocked"`
	Progress    *AchievementProgress `json:"progress,omitempty"`
}
