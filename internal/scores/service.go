package scores

import (
	"fmt"
	"log"

	"github.com/math-hero/backend/internal/achievements"
	"github.com/math-hero/backend/internal/game"
	"github.com/math-hero/backend/internal/models"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Star rating for the results screen. Three stars require finishing
// with every starting life intact.
const (
	threeStarAccuracy = 90
	twoStarAccuracy   = 70
)

// SaveGame persists a finished round and runs the achievement
// evaluation against the updated history. The client's session id is
// the idempotency key: a resubmitted round (refresh, double tap, second
// tab) returns the original result without touching stats again. A
// failed save leaves nothing behind, so retrying it is always safe.
func (s *Service) SaveGame(userID int64, req models.SaveScoreRequest) (*models.SaveScoreResponse, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	if req.TotalQuestions <= 0 {
		return nil, fmt.Errorf("total_questions must be positive")
	}
	if req.Accuracy < 0 || req.Accuracy > 100 {
		return nil, fmt.Errorf("accuracy must be between 0 and 100")
	}

	gameStats := achievements.NewGameStats(req.Score, req.Level, req.Accuracy, req.History)

	saved, inserted, err := s.store.SaveScore(userID, req, gameStats.Streak)
	if err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}

	resp := &models.SaveScoreResponse{
		Game:            saved,
		Stars:           computeStars(req.Accuracy, req.LivesRemaining),
		NewAchievements: []string{},
	}

	if !inserted {
		// Replayed submission: everything below already ran once.
		resp.AlreadySaved = true
		return resp, nil
	}

	daysPlayed, _, metaErr := s.store.GetUserMeta(userID)
	if metaErr != nil {
		log.Printf("[scores] failed to load user meta for %d: %v", userID, metaErr)
	}

	updatedDays, writeDays := daysPlayedUpdate(daysPlayed, metaErr)
	if writeDays {
		if err := s.store.UpdateDaysPlayed(userID, updatedDays); err != nil {
			log.Printf("[scores] failed to update days played for %d: %v", userID, err)
		}
	}

	if err := s.store.UpdateBestStreak(userID, gameStats.Streak); err != nil {
		log.Printf("[scores] failed to update best streak for %d: %v", userID, err)
	}

	userStats, err := s.buildUserStats(userID, updatedDays)
	if err != nil {
		// The score is saved; achievements can catch up on the next game.
		log.Printf("[scores] failed to build user stats for %d: %v", userID, err)
		return resp, nil
	}

	for _, a := range achievements.Evaluate(gameStats, userStats) {
		if err := s.store.AwardAchievement(userID, a.ID); err != nil {
			log.Printf("[scores] failed to award %s to %d: %v", a.ID, userID, err)
			continue
		}
		resp.NewAchievements = append(resp.NewAchievements, a.ID)
	}

	return resp, nil
}

// daysPlayedUpdate decides what to write back to users.days_played.
// A failed read must never produce a write: overwriting the column with
// a value derived from missing data would wipe the player's day-streak
// history. The skipped update self-heals on the next successful save.
func daysPlayedUpdate(daysPlayed []string, readErr error) ([]string, bool) {
	if readErr != nil {
		return nil, false
	}
	updated := achievements.UpdateDaysPlayed(daysPlayed)
	return updated, len(updated) > len(daysPlayed)
}

func (s *Service) buildUserStats(userID int64, daysPlayed []string) (models.UserStats, error) {
	history, err := s.store.GetUserGames(userID)
	if err != nil {
		return models.UserStats{}, err
	}
	unlocked, err := s.store.GetUserAchievements(userID)
	if err != nil {
		return models.UserStats{}, err
	}
	return achievements.NewUserStats(userID, history, unlocked, daysPlayed), nil
}

// ListGames returns the user's games, most recent first.
func (s *Service) ListGames(userID int64) ([]models.GameScore, error) {
	games, err := s.store.GetUserGames(userID)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []models.GameScore{}
	}
	return games, nil
}

// AchievementsStatus returns the full catalog annotated with the
// user's unlock state and progress.
func (s *Service) AchievementsStatus(userID int64) ([]models.AchievementStatus, error) {
	daysPlayed, _, err := s.store.GetUserMeta(userID)
	if err != nil {
		return nil, err
	}
	userStats, err := s.buildUserStats(userID, daysPlayed)
	if err != nil {
		return nil, err
	}
	return achievements.WithStatus(userStats, nil), nil
}

// Leaderboard returns ranked players, optionally restricted to games
// at one level.
func (s *Service) Leaderboard(level *int, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.store.GetLeaderboard(level, limit)
	if err != nil {
		return nil, err
	}
	return &models.LeaderboardResponse{Level: level, Entries: entries}, nil
}

// computeStars maps a finished round to its 0-3 star rating.
func computeStars(accuracy float64, lives int) int {
	switch {
	case accuracy >= threeStarAccuracy && lives == game.StartingLives:
		return 3
	case accuracy >= twoStarAccuracy && lives > 0:
		return 2
	case lives > 0:
		return 1
	default:
		return 0
	}
}
