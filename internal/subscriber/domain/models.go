package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Subscriber is one entry of the roaming directory. The MSISDN is an opaque
// unique key; no arithmetic is ever performed on it.
type Subscriber struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Msisdn    string       `gorm:"uniqueIndex;not null" json:"msisdn"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Subscriber) TableName() string { return "subscribers" }
