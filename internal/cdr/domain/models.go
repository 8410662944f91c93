// Package domain contains persistence models for call detail records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Call type codes carried over from the upstream roaming exchange format.
const (
	CallTypeIncoming = "01"
	CallTypeOutgoing = "02"
)

// CallRecord is one directed call episode between two subscribers. Records
// are immutable once persisted; the generator guarantees CallerNumber !=
// CalledNumber and StartTime < EndTime.
type CallRecord struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CallType     string       `gorm:"type:text;not null" json:"call_type"`
	CallerNumber string       `gorm:"not null;index" json:"caller_number"`
	CalledNumber string       `gorm:"not null;index" json:"called_number"`
	StartTime    time.Time    `gorm:"not null;index" json:"start_time"`
	EndTime      time.Time    `gorm:"not null" json:"end_time"`
}

// TableName sets the database table name.
func (CallRecord) TableName() string { return "cdrs" }

// Duration returns the elapsed call time. Not validated here; records from
// the generator are always positive.
func (r CallRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
