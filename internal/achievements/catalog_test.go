package achievements

import (
	"testing"

	"github.com/math-hero/backend/internal/models"
)

func TestCatalogWellFormed(t *testing.T) {
	valid := map[models.AchievementCategory]bool{
		models.CategoryStreak:      true,
		models.CategoryPrecision:   true,
		models.CategorySpeed:       true,
		models.CategoryScore:       true,
		models.CategoryPersistence: true,
		models.CategoryMastery:     true,
	}

	seen := map[string]bool{}
	for _, a := range Catalog {
		if a.ID == "" {
			t.Error("catalog entry with empty id")
		}
		if seen[a.ID] {
			t.Errorf("duplicate catalog id %s", a.ID)
		}
		seen[a.ID] = true

		if a.Title == "" || a.Description == "" || a.Icon == "" {
			t.Errorf("%s: missing display fields", a.ID)
		}
		if !valid[a.Category] {
			t.Errorf("%s: unknown category %q", a.ID, a.Category)
		}
		if a.Condition == nil {
			t.Errorf("%s: nil condition", a.ID)
		}
	}
}

func TestByID(t *testing.T) {
	a, ok := ByID("perfect")
	if !ok || a.ID != "perfect" {
		t.Errorf("ByID(perfect) = %v, %t", a.ID, ok)
	}
	if _, ok := ByID("nope"); ok {
		t.Error("ByID(nope) found a match")
	}
}

func TestByCategory(t *testing.T) {
	streaks := ByCategory(models.CategoryStreak)
	if len(streaks) != 6 {
		t.Errorf("streak category has %d entries, want 6", len(streaks))
	}
	for _, a := range streaks {
		if a.Category != models.CategoryStreak {
			t.Errorf("%s: wrong category %q", a.ID, a.Category)
		}
	}
}

func mustByID(t *testing.T, id string) Achievement {
	t.Helper()
	a, ok := ByID(id)
	if !ok {
		t.Fatalf("catalog missing %s", id)
	}
	return a
}

func TestPersonalRecord(t *testing.T) {
	record := mustByID(t, "personal_record")

	tests := []struct {
		name   string
		score  int
		scores []int // history, current game first
		want   bool
	}{
		{"first game never counts", 100, []int{100}, false},
		{"unique maximum", 120, []int{120, 100, 80}, true},
		{"tie with an old game", 100, []int{100, 100, 80}, false},
		{"not the maximum", 90, []int{90, 100}, false},
		{"zero score", 0, []int{0, 0}, false},
	}

	for _, tt := range tests {
		game := models.GameStats{Score: tt.score}
		var hist []models.GameScore
		for _, s := range tt.scores {
			hist = append(hist, models.GameScore{Score: s})
		}
		user := models.UserStats{TotalGames: len(hist), GamesHistory: hist}

		if got := record.Condition(game, user); got != tt.want {
			t.Errorf("%s: got %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestComeback(t *testing.T) {
	comeback := mustByID(t, "comeback")

	lostLastGame := models.UserStats{
		TotalGames: 2,
		GamesHistory: []models.GameScore{
			{Score: 50, LivesRemaining: 3},
			{Score: 0, LivesRemaining: 0},
		},
	}
	if !comeback.Condition(models.GameStats{Score: 50}, lostLastGame) {
		t.Error("winning after a loss did not count as a comeback")
	}

	wonLastGame := models.UserStats{
		TotalGames: 2,
		GamesHistory: []models.GameScore{
			{Score: 50, LivesRemaining: 3},
			{Score: 80, LivesRemaining: 2},
		},
	}
	if comeback.Condition(models.GameStats{Score: 50}, wonLastGame) {
		t.Error("comeback earned without a preceding loss")
	}

	onlyGame := models.UserStats{
		TotalGames:   1,
		GamesHistory: []models.GameScore{{Score: 50, LivesRemaining: 3}},
	}
	if comeback.Condition(models.GameStats{Score: 50}, onlyGame) {
		t.Error("comeback earned on the first game")
	}
}

func TestTableCleanSweep(t *testing.T) {
	tableQuestions := func(n, count int, missAt int) []models.QuestionHistory {
		qs := make([]models.QuestionHistory, count)
		for i := range qs {
			qs[i] = models.QuestionHistory{A: n, B: i + 1, IsCorrect: i != missAt}
		}
		return qs
	}

	if !tableCleanSweep(tableQuestions(5, 10, -1), 5) {
		t.Error("10 clean table-5 questions did not qualify")
	}
	if tableCleanSweep(tableQuestions(5, 10, 4), 5) {
		t.Error("a miss on the table still qualified")
	}
	if tableCleanSweep(tableQuestions(5, 9, -1), 5) {
		t.Error("9 questions qualified, want at least 10")
	}

	// Off-table misses don't break the sweep.
	qs := tableQuestions(7, 10, -1)
	qs = append(qs, models.QuestionHistory{A: 3, B: 4, IsCorrect: false})
	if !tableCleanSweep(qs, 7) {
		t.Error("an off-table miss broke the sweep")
	}

	// Operand order doesn't matter.
	qs = []models.QuestionHistory{}
	for i := 1; i <= 10; i++ {
		qs = append(qs, models.QuestionHistory{A: i, B: 9, IsCorrect: true})
	}
	if !tableCleanSweep(qs, 9) {
		t.Error("table operand in second position was not counted")
	}
}

func TestExplorer(t *testing.T) {
	explorer := mustByID(t, "all_levels")

	allLevels := models.UserStats{}
	for l := 1; l <= 6; l++ {
		allLevels.GamesHistory = append(allLevels.GamesHistory, models.GameScore{Level: l})
	}
	if !explorer.Condition(models.GameStats{}, allLevels) {
		t.Error("playing all 6 levels did not unlock explorer")
	}

	fiveLevels := models.UserStats{}
	for l := 1; l <= 5; l++ {
		fiveLevels.GamesHistory = append(fiveLevels.GamesHistory, models.GameScore{Level: l})
	}
	if explorer.Condition(models.GameStats{}, fiveLevels) {
		t.Error("explorer unlocked with a level missing")
	}

	// Repeats of one level don't help.
	repeats := models.UserStats{}
	for i := 0; i < 20; i++ {
		repeats.GamesHistory = append(repeats.GamesHistory, models.GameScore{Level: 1})
	}
	if explorer.Condition(models.GameStats{}, repeats) {
		t.Error("explorer unlocked by replaying one level")
	}
}

func TestFirstGame(t *testing.T) {
	first := mustByID(t, "first_game")

	if !first.Condition(models.GameStats{}, models.UserStats{TotalGames: 1}) {
		t.Error("first game not recognized")
	}
	if first.Condition(models.GameStats{}, models.UserStats{TotalGames: 2}) {
		t.Error("first_game earned on the second game")
	}
}

func TestCountPerfectGames(t *testing.T) {
	history := []models.GameScore{
		{Accuracy: 100},
		{Accuracy: 90},
		{Accuracy: 100},
		{Accuracy: 0},
	}
	if got := countPerfectGames(history); got != 2 {
		t.Errorf("countPerfectGames = %d, want 2", got)
	}
}
