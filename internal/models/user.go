package models

import "time"

type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	BestStreak int       `json:"best_streak"`
	DaysPlayed []string  `json:"days_played"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultAvatar is used when a new player doesn't pick one.
const DefaultAvatar = "astronaut"

type CreateUserRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
