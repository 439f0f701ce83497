package scores

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/math-hero/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Game Scores ─────────────────────────────────────────

// SaveScore persists a finished round. The (user_id, session_id)
// unique constraint makes it idempotent: a replayed submission returns
// the already-saved row with inserted=false.
func (s *Store) SaveScore(userID int64, req models.SaveScoreRequest, streak int) (models.GameScore, bool, error) {
	failedJSON, err := json.Marshal(failedOrEmpty(req.FailedQuestions))
	if err != nil {
		return models.GameScore{}, false, fmt.Errorf("marshal failed questions: %w", err)
	}

	var g models.GameScore
	err = s.db.QueryRow(
		`INSERT INTO game_scores
		    (user_id, session_id, level, score, accuracy, lives_remaining,
		     total_questions, correct_answers, best_streak, failed_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id, session_id) DO NOTHING
		 RETURNING id, user_id, session_id, level, score, accuracy, lives_remaining,
		           total_questions, correct_answers, best_streak, failed_questions, played_at`,
		userID, req.SessionID, req.Level, req.Score, req.Accuracy, req.LivesRemaining,
		req.TotalQuestions, req.CorrectAnswers, streak, failedJSON,
	).Scan(scoreFields(&g)...)

	if err == sql.ErrNoRows {
		existing, getErr := s.getScoreBySession(userID, req.SessionID)
		if getErr != nil {
			return models.GameScore{}, false, fmt.Errorf("get existing score: %w", getErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return models.GameScore{}, false, fmt.Errorf("save score: %w", err)
	}
	return g, true, nil
}

func (s *Store) getScoreBySession(userID int64, sessionID string) (models.GameScore, error) {
	var g models.GameScore
	err := s.db.QueryRow(
		`SELECT id, user_id, session_id, level, score, accuracy, lives_remaining,
		        total_questions, correct_answers, best_streak, failed_questions, played_at
		 FROM game_scores WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID,
	).Scan(scoreFields(&g)...)
	return g, err
}

// GetUserGames returns the user's games, most recent first.
func (s *Store) GetUserGames(userID int64) ([]models.GameScore, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, session_id, level, score, accuracy, lives_remaining,
		        total_questions, correct_answers, best_streak, failed_questions, played_at
		 FROM game_scores WHERE user_id = $1
		 ORDER BY played_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get user games: %w", err)
	}
	defer rows.Close()

	var games []models.GameScore
	for rows.Next() {
		var g models.GameScore
		if err := rows.Scan(scoreFields(&g)...); err != nil {
			return nil, fmt.Errorf("scan game score: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// scoreFields binds a GameScore's columns for scanning.
func scoreFields(g *models.GameScore) []interface{} {
	return []interface{}{
		&g.ID, &g.UserID, &g.SessionID, &g.Level, &g.Score, &g.Accuracy,
		&g.LivesRemaining, &g.TotalQuestions, &g.CorrectAnswers, &g.BestStreak,
		&failedQuestionsScanner{&g.FailedQuestions}, &g.PlayedAt,
	}
}

// failedQuestionsScanner decodes the JSONB failed_questions column.
type failedQuestionsScanner struct {
	dest *[]models.FailedQuestion
}

func (f *failedQuestionsScanner) Scan(src interface{}) error {
	if src == nil {
		*f.dest = []models.FailedQuestion{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("failed_questions: unexpected type %T", src)
	}
	return json.Unmarshal(b, f.dest)
}

func failedOrEmpty(failed []models.FailedQuestion) []models.FailedQuestion {
	if failed == nil {
		return []models.FailedQuestion{}
	}
	return failed
}

// ── User Stats Columns ──────────────────────────────────

func (s *Store) GetUserMeta(userID int64) (daysPlayed []string, bestStreak int, err error) {
	err = s.db.QueryRow(
		`SELECT days_played, best_streak FROM users WHERE id = $1`,
		userID,
	).Scan(pq.Array(&daysPlayed), &bestStreak)
	if err != nil {
		return nil, 0, fmt.Errorf("get user meta: %w", err)
	}
	if daysPlayed == nil {
		daysPlayed = []string{}
	}
	return daysPlayed, bestStreak, nil
}

func (s *Store) UpdateDaysPlayed(userID int64, daysPlayed []string) error {
	_, err := s.db.Exec(
		`UPDATE users SET days_played = $2, updated_at = NOW() WHERE id = $1`,
		userID, pq.Array(daysPlayed),
	)
	return err
}

// UpdateBestStreak keeps the stored value monotonic: it only ever grows.
func (s *Store) UpdateBestStreak(userID int64, streak int) error {
	_, err := s.db.Exec(
		`UPDATE users SET best_streak = GREATEST(best_streak, $2), updated_at = NOW()
		 WHERE id = $1`,
		userID, streak,
	)
	return err
}

// ── Achievements ────────────────────────────────────────

func (s *Store) GetUserAchievements(userID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id FROM user_achievements WHERE user_id = $1 ORDER BY unlocked_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, rows.Err()
}

// AwardAchievement is idempotent; re-awarding an unlocked id is a no-op.
func (s *Store) AwardAchievement(userID int64, achievementID string) error {
	_, err := s.db.Exec(
		`INSERT INTO user_achievements (user_id, achievement_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	return err
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) GetLeaderboard(level *int, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, u.name, u.avatar, COUNT(g.id) AS total_games,
		       COALESCE(MAX(g.score), 0) AS best_score,
		       COALESCE(SUM(g.score), 0) AS total_score
		FROM users u
		JOIN game_scores g ON g.user_id = u.id`
	args := []interface{}{}
	if level != nil {
		query += ` WHERE g.level = $1`
		args = append(args, *level)
	}
	query += `
		GROUP BY u.id, u.name, u.avatar
		ORDER BY best_score DESC, total_score DESC
		LIMIT $` + fmt.Sprint(len(args)+1)
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Avatar, &e.TotalGames, &e.BestScore, &e.TotalScore); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, rows.Err()
}
