package achievements

import (
	"testing"
	"time"

	"github.com/math-hero/backend/internal/models"
)

func history(results ...bool) []models.QuestionHistory {
	h := make([]models.QuestionHistory, len(results))
	for i, ok := range results {
		h[i] = models.QuestionHistory{
			Question:  "2x2",
			A:         2,
			B:         2,
			IsCorrect: ok,
			TimeSpent: 2,
		}
	}
	return h
}

func TestNewGameStats(t *testing.T) {
	h := history(true, true, false, true, true, true)
	h[0].TimeSpent = 4
	h[2].TimeSpent = 6

	stats := NewGameStats(65, 1, 83.3, h)

	if stats.Correct != 5 {
		t.Errorf("Correct = %d, want 5", stats.Correct)
	}
	if stats.Total != 6 {
		t.Errorf("Total = %d, want 6", stats.Total)
	}
	// Longest run is the trailing three correct answers.
	if stats.Streak != 3 {
		t.Errorf("Streak = %d, want 3", stats.Streak)
	}
	// Times: 4 + 2 + 6 + 2 + 2 + 2 = 18 over 6 questions.
	if stats.AvgTime != 3 {
		t.Errorf("AvgTime = %f, want 3", stats.AvgTime)
	}
	if stats.Score != 65 || stats.Level != 1 {
		t.Errorf("Score/Level = %d/%d, want 65/1", stats.Score, stats.Level)
	}
}

func TestNewGameStatsEmptyHistory(t *testing.T) {
	stats := NewGameStats(0, 1, 0, nil)
	if stats.Correct != 0 || stats.Total != 0 || stats.Streak != 0 || stats.AvgTime != 0 {
		t.Errorf("empty history produced non-zero stats: %+v", stats)
	}
}

func TestNewUserStats(t *testing.T) {
	games := []models.GameScore{
		{Score: 100, BestStreak: 7},
		// Legacy row without a stored streak: falls back to the
		// floor(correct * accuracy/100) estimate, here 6.
		{Score: 80, BestStreak: 0, CorrectAnswers: 8, Accuracy: 75},
	}

	stats := NewUserStats(42, games, []string{"first_game"}, []string{"2024-01-01"})

	if stats.UserID != 42 {
		t.Errorf("UserID = %d, want 42", stats.UserID)
	}
	if stats.BestScore != 100 {
		t.Errorf("BestScore = %d, want 100", stats.BestScore)
	}
	if stats.BestStreak != 7 {
		t.Errorf("BestStreak = %d, want 7", stats.BestStreak)
	}
	if stats.TotalGames != 2 {
		t.Errorf("TotalGames = %d, want 2", stats.TotalGames)
	}
}

func TestConsecutiveDaysAt(t *testing.T) {
	at := func(day string) time.Time {
		d, err := time.Parse(dateLayout, day)
		if err != nil {
			t.Fatalf("bad test date %q: %v", day, err)
		}
		return d.Add(12 * time.Hour)
	}

	tests := []struct {
		name string
		days []string
		now  string
		want int
	}{
		{"empty", nil, "2024-01-03", 0},
		{"three day run ending today", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, "2024-01-03", 3},
		{"run ending yesterday still counts", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, "2024-01-04", 3},
		{"stale run is broken", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, "2024-01-05", 0},
		{"gap inside run", []string{"2024-01-01", "2024-01-03"}, "2024-01-03", 1},
		{"unordered input", []string{"2024-01-03", "2024-01-01", "2024-01-02"}, "2024-01-03", 3},
		{"unparseable dates skipped", []string{"garbage", "2024-01-03"}, "2024-01-03", 1},
	}

	for _, tt := range tests {
		got := consecutiveDaysAt(tt.days, at(tt.now))
		if got != tt.want {
			t.Errorf("%s: consecutiveDaysAt = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestUpdateDaysPlayedAt(t *testing.T) {
	now, _ := time.Parse(dateLayout, "2024-01-03")

	got := updateDaysPlayedAt(nil, now)
	if len(got) != 1 || got[0] != "2024-01-03" {
		t.Errorf("updateDaysPlayedAt(nil) = %v", got)
	}

	// Same day twice is a no-op.
	again := updateDaysPlayedAt(got, now)
	if len(again) != 1 {
		t.Errorf("second update on the same day grew to %v", again)
	}

	// The input slice must not be mutated.
	days := []string{"2024-01-01"}
	updated := updateDaysPlayedAt(days, now)
	if len(days) != 1 {
		t.Errorf("input mutated: %v", days)
	}
	if len(updated) != 2 || updated[1] != "2024-01-03" {
		t.Errorf("updateDaysPlayedAt = %v", updated)
	}
}

func earnedIDs(earned []Achievement) map[string]bool {
	ids := make(map[string]bool, len(earned))
	for _, a := range earned {
		ids[a.ID] = true
	}
	return ids
}

func TestEvaluatePerfectFirstRound(t *testing.T) {
	h := history(true, true, true, true, true, true, true, true, true, true)
	game := NewGameStats(150, 1, 100, h)
	user := models.UserStats{
		UserID:     1,
		TotalGames: 1,
		DaysPlayed: []string{time.Now().UTC().Format(dateLayout)},
		GamesHistory: []models.GameScore{
			{Score: 150, Accuracy: 100, LivesRemaining: 3, BestStreak: 10},
		},
	}

	ids := earnedIDs(Evaluate(game, user))

	for _, want := range []string{
		"streak_3", "streak_5", "streak_10",
		"perfect", "accuracy_90",
		"score_100", "score_135", "score_150",
		"speed_3s", // avg 2s qualifies for under-3 but not under-2
		"first_game",
	} {
		if !ids[want] {
			t.Errorf("perfect first round did not earn %s", want)
		}
	}
	for _, wrong := range []string{"speed_2s", "comeback", "daily_3", "personal_record", "perfect_5"} {
		if ids[wrong] {
			t.Errorf("perfect first round wrongly earned %s", wrong)
		}
	}
}

func TestEvaluateSkipsUnlocked(t *testing.T) {
	h := history(true, true, true, true, true)
	game := NewGameStats(75, 1, 100, h)
	user := models.UserStats{
		TotalGames:           5,
		AchievementsUnlocked: []string{"streak_3"},
		GamesHistory:         make([]models.GameScore, 5),
	}

	ids := earnedIDs(Evaluate(game, user))

	if ids["streak_3"] {
		t.Error("already unlocked streak_3 was re-reported")
	}
	if !ids["streak_5"] {
		t.Error("streak_5 was not earned")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	h := history(true, true, true, false, true)
	game := NewGameStats(55, 2, 80, h)
	user := models.UserStats{TotalGames: 3, GamesHistory: make([]models.GameScore, 3)}

	first := earnedIDs(Evaluate(game, user))
	second := earnedIDs(Evaluate(game, user))

	if len(first) != len(second) {
		t.Fatalf("evaluation not deterministic: %v vs %v", first, second)
	}
	for id := range first {
		if !second[id] {
			t.Errorf("id %s missing from second evaluation", id)
		}
	}
}

func TestEvaluateNothingEarned(t *testing.T) {
	// A scoreless, streakless round by an established player satisfies
	// no predicate at all.
	h := history(false, false, false)
	game := NewGameStats(0, 1, 0, h)
	user := models.UserStats{
		TotalGames: 2,
		GamesHistory: []models.GameScore{
			{Score: 0, Accuracy: 0, LivesRemaining: 0, Level: 1},
			{Score: 40, Accuracy: 50, LivesRemaining: 1, Level: 1},
		},
	}

	if earned := Evaluate(game, user); len(earned) != 0 {
		t.Errorf("scoreless round earned %v, want nothing", earnedIDs(earned))
	}
}

func TestEvaluatePanicIsolation(t *testing.T) {
	catalog := []Achievement{
		{
			ID: "boom",
			Condition: func(_ models.GameStats, u models.UserStats) bool {
				return u.GamesHistory[99].Score > 0 // out of range
			},
		},
		{
			ID:        "fine",
			Condition: func(_ models.GameStats, _ models.UserStats) bool { return true },
		},
	}

	earned := evaluateCatalog(catalog, models.GameStats{}, models.UserStats{})

	if len(earned) != 1 || earned[0].ID != "fine" {
		t.Errorf("earned = %v, want only \"fine\"", earned)
	}
}

func TestWithStatus(t *testing.T) {
	user := models.UserStats{
		TotalGames:           4,
		AchievementsUnlocked: []string{"first_game"},
		GamesHistory:         make([]models.GameScore, 4),
	}

	statuses := WithStatus(user, nil)

	if len(statuses) != len(Catalog) {
		t.Fatalf("got %d statuses, want %d", len(statuses), len(Catalog))
	}

	byID := make(map[string]models.AchievementStatus, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}

	if !byID["first_game"].Unlocked {
		t.Error("first_game not marked unlocked")
	}
	if byID["streak_3"].Unlocked {
		t.Error("streak_3 wrongly marked unlocked")
	}

	p := byID["games_10"].Progress
	if p == nil {
		t.Fatal("games_10 has no progress")
	}
	if p.Current != 4 || p.Target != 10 {
		t.Errorf("games_10 progress = %d/%d, want 4/10", p.Current, p.Target)
	}
}
