package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTweetLength bounds tweet content.
const MaxTweetLength = 140

// Tweet is immutable once created. The auto-increment ID doubles as the
// pagination cursor since it follows creation order.
type Tweet struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserUUID      uuid.UUID `json:"userUuid" gorm:"type:uuid;not null;index"`
	Content       string    `json:"content" gorm:"size:140;not null"`
	TweetDatetime time.Time `json:"tweetDatetime" gorm:"autoCreateTime"`
}
