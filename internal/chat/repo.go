package chat

import (
	"context"
	"time"

	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/Be1newinner/ship-chatbot/internal/models"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateSession(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// LatestSessionByUser returns the most recently created session for a
// user. Ordering by id keeps the pick deterministic if duplicates ever
// exist (rows that pre-date the unique index).
func (r *Repo) LatestSessionByUser(ctx context.Context, userID uint64) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// AppendTurn is a single atomic insert; the ledger has no update path.
func (r *Repo) AppendTurn(ctx context.Context, t *Turn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// RecentTurns returns the last `limit` turns for a session in
// chronological order. The fetch is newest-first internally and
// reversed before returning, since the result feeds prompt assembly.
func (r *Repo) RecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = DefaultContextTurns
	}
	var desc []Turn
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&desc).Error; err != nil {
		return nil, err
	}
	asc := make([]Turn, 0, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		asc = append(asc, desc[i])
	}
	return asc, nil
}

// PageBySession returns one page of a session's history plus the total
// row count. Pages past the end are empty, not an error.
func (r *Repo) PageBySession(ctx context.Context, sessionID string, pr common.PageRequest) ([]Turn, int64, error) {
	return r.pageTurns(ctx, pr, "session_id = ?", sessionID)
}

// PageByUser returns one page of a user's history across all sessions.
func (r *Repo) PageByUser(ctx context.Context, userID uint64, pr common.PageRequest) ([]Turn, int64, error) {
	return r.pageTurns(ctx, pr, "user_id = ?", userID)
}

func (r *Repo) pageTurns(ctx context.Context, pr common.PageRequest, query string, arg any) ([]Turn, int64, error) {
	if err := pr.Validate(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Turn{}).
		Where(query, arg).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	turns := make([]Turn, 0, pr.PageSize)
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("id ASC").
		Offset(pr.Offset()).
		Limit(pr.PageSize).
		Find(&turns).Error; err != nil {
		return nil, 0, err
	}
	return turns, total, nil
}

// ListSessions pages over every session, oldest first.
func (r *Repo) ListSessions(ctx context.Context, pr common.PageRequest) ([]Session, int64, error) {
	if err := pr.Validate(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sessions := make([]Session, 0, pr.PageSize)
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(pr.Offset()).
		Limit(pr.PageSize).
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// UserView is the admin projection of a user. The password hash is
// excluded at the query level, not just hidden in serialization.
type UserView struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsers pages over users with sensitive columns excluded.
func (r *Repo) ListUsers(ctx context.Context, pr common.PageRequest) ([]UserView, int64, error) {
	if err := pr.Validate(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	views := make([]UserView, 0, pr.PageSize)
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id", "username", "email", "role", "created_at").
		Order("id ASC").
		Offset(pr.Offset()).
		Limit(pr.PageSize).
		Find(&views).Error; err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *Repo) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Session{}).Count(&n).Error
	return n, err
}
