package achievements

import (
	"log"
	"sort"
	"time"

	"github.com/math-hero/backend/internal/models"
)

const dateLayout = "2006-01-02"

// Evaluate runs every catalog entry against a finished game and the
// player's history, returning the newly satisfied achievements in
// catalog order. Already-unlocked ids are never re-reported; the caller
// persists the result and feeds the updated unlocked set back in on the
// next call. Evaluation is pure: same inputs, same output.
func Evaluate(game models.GameStats, user models.UserStats) []Achievement {
	return evaluateCatalog(Catalog, game, user)
}

func evaluateCatalog(catalog []Achievement, game models.GameStats, user models.UserStats) []Achievement {
	unlocked := make(map[string]bool, len(user.AchievementsUnlocked))
	for _, id := range user.AchievementsUnlocked {
		unlocked[id] = true
	}

	var earned []Achievement
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		if safeCondition(a, game, user) {
			earned = append(earned, a)
		}
	}
	return earned
}

// safeCondition treats a panicking predicate as "not satisfied" so one
// bad catalog entry can't abort the rest of the batch.
func safeCondition(a Achievement, game models.GameStats, user models.UserStats) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[achievements] condition %s panicked: %v", a.ID, r)
			ok = false
		}
	}()
	return a.Condition(game, user)
}

// NewGameStats aggregates one finished round from its ordered history.
func NewGameStats(score, level int, accuracy float64, history []models.QuestionHistory) models.GameStats {
	correct := 0
	maxStreak := 0
	streak := 0
	totalTime := 0.0

	for _, q := range history {
		if q.IsCorrect {
			correct++
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
		totalTime += q.TimeSpent
	}

	total := len(history)
	avgTime := 0.0
	if total > 0 {
		avgTime = totalTime / float64(total)
	}

	return models.GameStats{
		Correct:   correct,
		Total:     total,
		Streak:    maxStreak,
		AvgTime:   avgTime,
		Score:     score,
		Accuracy:  accuracy,
		Level:     level,
		PlayedAt:  time.Now().UTC(),
		Questions: history,
	}
}

// NewUserStats builds the evaluation snapshot from persisted data.
// gamesHistory is ordered most recent first; right after a save the
// just-finished game sits at index 0.
func NewUserStats(userID int64, gamesHistory []models.GameScore, unlocked []string, daysPlayed []string) models.UserStats {
	bestScore := 0
	bestStreak := 0
	for _, g := range gamesHistory {
		if g.Score > bestScore {
			bestScore = g.Score
		}
		if s := gameStreak(g); s > bestStreak {
			bestStreak = s
		}
	}

	return models.UserStats{
		UserID:               userID,
		BestScore:            bestScore,
		BestStreak:           bestStreak,
		TotalGames:           len(gamesHistory),
		DaysPlayed:           daysPlayed,
		AchievementsUnlocked: unlocked,
		GamesHistory:         gamesHistory,
	}
}

// gameStreak prefers the persisted per-round streak. Rows saved before
// streaks were stored fall back to floor(correct * accuracy/100), a
// lossy estimate of the real longest run, kept only for legacy data.
func gameStreak(g models.GameScore) int {
	if g.BestStreak > 0 {
		return g.BestStreak
	}
	return int(float64(g.CorrectAnswers) * g.Accuracy / 100)
}

// ConsecutiveDays counts how many of the most recent played dates form
// an unbroken daily run ending today or yesterday. A gap of more than
// one day before today means the streak is broken.
func ConsecutiveDays(daysPlayed []string) int {
	return consecutiveDaysAt(daysPlayed, time.Now().UTC())
}

func consecutiveDaysAt(daysPlayed []string, now time.Time) int {
	var dates []time.Time
	for _, d := range daysPlayed {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	if len(dates) == 0 {
		return 0
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	today := now.Truncate(24 * time.Hour)
	if daysBetween(dates[0], today) > 1 {
		return 0
	}

	consecutive := 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i], dates[i-1]) != 1 {
			break
		}
		consecutive++
	}
	return consecutive
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}

// UpdateDaysPlayed adds today's ISO date if absent. Idempotent: calling
// it twice on the same day returns the same set.
func UpdateDaysPlayed(daysPlayed []string) []string {
	return updateDaysPlayedAt(daysPlayed, time.Now().UTC())
}

func updateDaysPlayedAt(daysPlayed []string, now time.Time) []string {
	today := now.Format(dateLayout)
	for _, d := range daysPlayed {
		if d == today {
			return daysPlayed
		}
	}
	return append(append([]string(nil), daysPlayed...), today)
}

// GetProgress returns partial-completion info for achievements that
// support it, or nil.
func GetProgress(a Achievement, game models.GameStats, user models.UserStats) (p *models.AchievementProgress) {
	if a.Progress == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[achievements] progress %s panicked: %v", a.ID, r)
			p = nil
		}
	}()
	prog := a.Progress(game, user)
	return &prog
}

// WithStatus returns the whole catalog annotated with the player's
// unlock state and progress, for the achievements screen.
func WithStatus(user models.UserStats, currentGame *models.GameStats) []models.AchievementStatus {
	unlocked := make(map[string]bool, len(user.AchievementsUnlocked))
	for _, id := range user.AchievementsUnlocked {
		unlocked[id] = true
	}

	game := models.GameStats{}
	if currentGame != nil {
		game = *currentGame
	}

	statuses := make([]models.AchievementStatus, 0, len(Catalog))
	for _, a := range Catalog {
		statuses = append(statuses, models.AchievementStatus{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Category:    a.Category,
			Unlocked:    unlocked[a.ID],
			Progress:    GetProgress(a, game, user),
		})
	}
	return statuses
}
