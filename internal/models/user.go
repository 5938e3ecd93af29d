package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	AvatarURL    string
	CoverURL     string

	// Single live refresh credential, nil while logged out.
	// Always holds exactly the most recently issued value: issuing a new
	// one overwrites (and thereby revokes) any prior value.
	RefreshToken *string
}
