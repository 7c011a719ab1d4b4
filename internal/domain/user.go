package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	RewardPoints int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
