package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "mathhero_user")
	password := getEnv("DB_PASSWORD", "mathhero_password")
	dbname := getEnv("DB_NAME", "mathhero")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates the schema. Every statement is idempotent so it can
// run on every boot.
func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		avatar      VARCHAR(50) NOT NULL DEFAULT 'astronaut',
		best_streak INT NOT NULL DEFAULT 0,
		days_played TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS game_scores (
		id               BIGSERIAL PRIMARY KEY,
		user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		session_id       VARCHAR(64) NOT NULL,
		level            INT NOT NULL,
		score            INT NOT NULL,
		accuracy         REAL NOT NULL,
		lives_remaining  INT NOT NULL,
		total_questions  INT NOT NULL,
		correct_answers  INT NOT NULL,
		best_streak      INT NOT NULL DEFAULT 0,
		failed_questions JSONB NOT NULL DEFAULT '[]',
		played_at        TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, session_id)
	);

	CREATE INDEX IF NOT EXISTS idx_scores_user ON game_scores(user_id, played_at DESC);
	CREATE INDEX IF NOT EXISTS idx_scores_level ON game_scores(level);

	CREATE TABLE IF NOT EXISTS user_achievements (
		id             BIGSERIAL PRIMARY KEY,
		user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		achievement_id VARCHAR(100) NOT NULL,
		unlocked_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, achievement_id)
	);

	CREATE INDEX IF NOT EXISTS idx_achievements_user ON user_achievements(user_id);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Columns added after the initial schema shipped. Idempotent for
	// databases created before these existed.
	alterStatements := []string{
		`ALTER TABLE game_scores ADD COLUMN IF NOT EXISTS best_streak INT NOT NULL DEFAULT 0`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS days_played TEXT[] NOT NULL DEFAULT '{}'`,
	}
	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
