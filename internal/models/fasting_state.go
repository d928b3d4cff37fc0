package models

import "time"

// FastingStateRecord stores one user's fasting blob as JSON. The blob is replaced wholesale
// on every write.
type FastingStateRecord struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	Version   int    `gorm:"not null"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (FastingStateRecord) TableName() string {
	return "fasting_states"
}
