package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
)

// User holds both the public profile and the credential hash. The hash is
// excluded from JSON so it can never leak through a response body.
type User struct {
	UUID           uuid.UUID  `json:"uuid" gorm:"type:uuid;primaryKey"`
	CommonName     string     `json:"commonName" gorm:"size:128;not null"`
	Username       string     `json:"username" gorm:"size:32;uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"size:254;uniqueIndex;not null"`
	HashedPassword string     `json:"-" gorm:"size:60;not null"`
	UserStatus     UserStatus `json:"userStatus" gorm:"size:16;not null"`
	SignupDatetime time.Time  `json:"signupDatetime" gorm:"autoCreateTime"`
	LastUpdate     time.Time  `json:"lastUpdate" gorm:"autoUpdateTime"`
}
