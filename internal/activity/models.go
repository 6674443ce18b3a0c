package activity

import "time"

const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionChat     = "chat"
)

// Event is one audit-log row. Rows are written by the worker consuming
// the activity queue, never by request handlers directly.
type Event struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Action    string    `gorm:"type:varchar(32);not null" json:"action"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (Event) TableName() string { return "activity_log" }
