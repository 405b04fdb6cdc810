package domain

import "github.com/google/uuid"

// Follow is the directed edge userUuid --follows--> feedOwnerUuid.
// The composite primary key serves the "who do I follow" query; the reverse
// index is needed for the followers query since indices are not reversible.
type Follow struct {
	UserUUID      uuid.UUID `json:"userUuid" gorm:"type:uuid;primaryKey;index:idx_follow_reverse,priority:2"`
	FeedOwnerUUID uuid.UUID `json:"feedOwnerUuid" gorm:"type:uuid;primaryKey;index:idx_follow_reverse,priority:1"`
}
