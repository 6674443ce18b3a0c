package chat

import (
	"time"

	"github.com/Be1newinner/ship-chatbot/internal/common"
)

// Session is the single canonical conversation per user. The unique
// index on user_id is what makes lazy creation idempotent across
// processes.
type Session struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"session_id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string { return "chat_sessions" }

// Turn is one message/response exchange. Rows are append-only; there is
// no update or delete path. session_id and user_id are both recorded so
// provenance survives even if the session row is removed externally.
type Turn struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);not null;index" json:"session_id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time `json:"timestamp"`
}

func (Turn) TableName() string { return "chat_history" }

func NewSessionID() (string, error) {
	return common.NewULID()
}
