package achievements

import (
	"github.com/math-hero/backend/internal/game"
	"github.com/math-hero/backend/internal/models"
)

// Achievement is one catalog entry: a stable identity plus a pure
// predicate over the finished game and the player's history. Progress
// is optional and only used for partial-completion display.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string // Material Symbols icon name
	Category    models.AchievementCategory
	Condition   func(game models.GameStats, user models.UserStats) bool
	Progress    func(game models.GameStats, user models.UserStats) models.AchievementProgress
}

// Thresholds are game-balance tuning, kept out of the predicates'
// control flow so they can change independently.
const (
	streakBronze = 3
	streakSilver = 5
	streakGold   = 10

	dailyShort = 3
	dailyWeek  = 7
	dailyMonth = 30

	// minRoundQuestions gates precision and speed awards so a short
	// round can't qualify.
	minRoundQuestions = 10

	perfectAccuracy  = 100
	highAccuracy     = 90
	perfectGamesGoal = 5

	speedFast      = 3.0
	speedLightning = 2.0
	speedFlash     = 1.0

	// A 10-question round caps at 150 points (10 + 5 fast bonus each).
	scoreBronze = 100
	scoreSilver = 135
	scoreGold   = 150

	gamesApprentice = 10
	gamesDevoted    = 50
	gamesCentury    = 100

	masteryMinQuestions = 10
)

// Catalog is the fixed, ordered achievement list. Evaluation follows
// this order; unlock persistence is keyed by ID.
var Catalog = []Achievement{
	// ── Streaks ──────────────────────────────────────────
	{
		ID:          "streak_3",
		Title:       "Warming Up",
		Description: "3 correct answers in a row",
		Icon:        "local_fire_department",
		Category:    models.CategoryStreak,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Streak >= streakBronze
		},
	},
	{
		ID:          "streak_5",
		Title:       "Unstoppable",
		Description: "5 correct answers in a row",
		Icon:        "whatshot",
		Category:    models.CategoryStreak,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Streak >= streakSilver
		},
	},
	{
		ID:          "streak_10",
		Title:       "Streak Master",
		Description: "10 correct answers in a row",
		Icon:        "bolt",
		Category:    models.CategoryStreak,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Streak >= streakGold
		},
	},
	{
		ID:          "daily_3",
		Title:       "Consistent",
		Description: "Play 3 days in a row",
		Icon:        "event_repeat",
		Category:    models.CategoryStreak,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return ConsecutiveDays(u.DaysPlayed) >= dailyShort
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: ConsecutiveDays(u.DaysPlayed), Target: dailyShort}
		},
	},
	{
		ID:          "daily_7",
		Title:       "Dedicated",
		Description: "Play 7 days in a row",
		Icon:        "calendar_month",
		Category:    models.CategoryStreak,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return ConsecutiveDays(u.DaysPlayed) >= dailyWeek
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: ConsecutiveDays(u.DaysPlayed), Target: dailyWeek}
		},
	},
	{
		ID:          "daily_30",
		Title:       "Legend",
		Description: "Play 30 days in a row",
		Icon:        "emoji_events",
		Category:    models.CategoryStreak,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return ConsecutiveDays(u.DaysPlayed) >= dailyMonth
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: ConsecutiveDays(u.DaysPlayed), Target: dailyMonth}
		},
	},

	// ── Precision ────────────────────────────────────────
	{
		ID:          "perfect",
		Title:       "Perfect",
		Description: "100% accuracy in a round",
		Icon:        "stars",
		Category:    models.CategoryPrecision,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Accuracy == perfectAccuracy && g.Total >= minRoundQuestions
		},
	},
	{
		ID:          "accuracy_90",
		Title:       "Almost Perfect",
		Description: "90% accuracy or better",
		Icon:        "grade",
		Category:    models.CategoryPrecision,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Accuracy >= highAccuracy && g.Total >= minRoundQuestions
		},
	},
	{
		ID:          "perfect_5",
		Title:       "Flawless",
		Description: "5 perfect rounds",
		Icon:        "verified",
		Category:    models.CategoryPrecision,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return countPerfectGames(u.GamesHistory) >= perfectGamesGoal
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: countPerfectGames(u.GamesHistory), Target: perfectGamesGoal}
		},
	},

	// ── Speed ────────────────────────────────────────────
	{
		ID:          "speed_3s",
		Title:       "Quick",
		Description: "Average under 3 seconds",
		Icon:        "speed",
		Category:    models.CategorySpeed,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.AvgTime < speedFast && g.Total >= minRoundQuestions
		},
	},
	{
		ID:          "speed_2s",
		Title:       "Lightning",
		Description: "Average under 2 seconds",
		Icon:        "flash_on",
		Category:    models.CategorySpeed,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.AvgTime < speedLightning && g.Total >= minRoundQuestions
		},
	},
	{
		ID:          "speed_1s",
		Title:       "Flash",
		Description: "Average under 1 second",
		Icon:        "electric_bolt",
		Category:    models.CategorySpeed,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.AvgTime < speedFlash && g.Total >= minRoundQuestions
		},
	},

	// ── Score ────────────────────────────────────────────
	{
		ID:          "score_100",
		Title:       "Beginner",
		Description: "Reach 100 points",
		Icon:        "military_tech",
		Category:    models.CategoryScore,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Score >= scoreBronze
		},
	},
	{
		ID:          "score_135",
		Title:       "Expert",
		Description: "Reach 135 points",
		Icon:        "workspace_premium",
		Category:    models.CategoryScore,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Score >= scoreSilver
		},
	},
	{
		ID:          "score_150",
		Title:       "Master",
		Description: "Reach a flawless 150 points",
		Icon:        "diamond",
		Category:    models.CategoryScore,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return g.Score >= scoreGold
		},
	},
	{
		ID:          "personal_record",
		Title:       "New Record",
		Description: "Beat your best score",
		Icon:        "trending_up",
		Category:    models.CategoryScore,
		Condition: func(g models.GameStats, u models.UserStats) bool {
			// History includes the game being evaluated, so a record
			// means this score is the unique maximum so far.
			if g.Score == 0 || u.TotalGames < 2 {
				return false
			}
			atLeast := 0
			for _, past := range u.GamesHistory {
				if past.Score >= g.Score {
					atLeast++
				}
			}
			return atLeast == 1
		},
	},

	// ── Persistence ──────────────────────────────────────
	{
		ID:          "first_game",
		Title:       "First Round",
		Description: "Finish your first game",
		Icon:        "celebration",
		Category:    models.CategoryPersistence,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return u.TotalGames == 1
		},
	},
	{
		ID:          "comeback",
		Title:       "Triumphant Return",
		Description: "Come back after losing",
		Icon:        "restart_alt",
		Category:    models.CategoryPersistence,
		Condition: func(g models.GameStats, u models.UserStats) bool {
			// GamesHistory[0] is the current game; [1] is the one before.
			if len(u.GamesHistory) < 2 {
				return false
			}
			return u.GamesHistory[1].LivesRemaining == 0 && g.Score > 0
		},
	},
	{
		ID:          "games_10",
		Title:       "Practicing",
		Description: "Play 10 games",
		Icon:        "sports_esports",
		Category:    models.CategoryPersistence,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return u.TotalGames >= gamesApprentice
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: u.TotalGames, Target: gamesApprentice}
		},
	},
	{
		ID:          "games_50",
		Title:       "Total Dedication",
		Description: "Play 50 games",
		Icon:        "emoji_events",
		Category:    models.CategoryPersistence,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return u.TotalGames >= gamesDevoted
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: u.TotalGames, Target: gamesDevoted}
		},
	},
	{
		ID:          "games_100",
		Title:       "Centurion",
		Description: "Play 100 games",
		Icon:        "military_tech",
		Category:    models.CategoryPersistence,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			return u.TotalGames >= gamesCentury
		},
		Progress: func(_ models.GameStats, u models.UserStats) models.AchievementProgress {
			return models.AchievementProgress{Current: u.TotalGames, Target: gamesCentury}
		},
	},

	// ── Mastery ──────────────────────────────────────────
	{
		ID:          "master_5",
		Title:       "Master of 5",
		Description: "10 questions on the 5 table without a miss",
		Icon:        "school",
		Category:    models.CategoryMastery,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return tableCleanSweep(g.Questions, 5)
		},
	},
	{
		ID:          "master_7",
		Title:       "Master of 7",
		Description: "10 questions on the 7 table without a miss",
		Icon:        "psychology",
		Category:    models.CategoryMastery,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return tableCleanSweep(g.Questions, 7)
		},
	},
	{
		ID:          "master_9",
		Title:       "Master of 9",
		Description: "10 questions on the 9 table without a miss",
		Icon:        "auto_awesome",
		Category:    models.CategoryMastery,
		Condition: func(g models.GameStats, _ models.UserStats) bool {
			return tableCleanSweep(g.Questions, 9)
		},
	},
	{
		ID:          "all_levels",
		Title:       "Explorer",
		Description: "Play every level at least once",
		Icon:        "explore",
		Category:    models.CategoryMastery,
		Condition: func(_ models.GameStats, u models.UserStats) bool {
			levels := make(map[int]bool)
			for _, past := range u.GamesHistory {
				levels[past.Level] = true
			}
			return len(levels) >= game.NumLevels
		},
	},
}

// tableCleanSweep reports whether the round had at least
// masteryMinQuestions questions involving operand n with zero misses
// among them.
func tableCleanSweep(questions []models.QuestionHistory, n int) bool {
	count := 0
	for _, q := range questions {
		if q.A == n || q.B == n {
			if !q.IsCorrect {
				return false
			}
			count++
		}
	}
	return count >= masteryMinQuestions
}

func countPerfectGames(history []models.GameScore) int {
	count := 0
	for _, g := range history {
		if g.Accuracy == perfectAccuracy {
			count++
		}
	}
	return count
}

// ByID returns the catalog entry with the given id.
func ByID(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// ByCategory returns catalog entries in the given category, in catalog
// order.
func ByCategory(category models.AchievementCategory) []Achievement {
	var out []Achievement
	for _, a := range Catalog {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
