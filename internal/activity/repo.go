package activity

import (
	"context"

	"github.com/Be1newinner/ship-chatbot/internal/common"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// PageByUser pages a user's audit trail, newest first.
func (r *Repo) PageByUser(ctx context.Context, userID uint64, pr common.PageRequest) ([]Event, int64, error) {
	if err := pr.Validate(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Event{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	events := make([]Event, 0, pr.PageSize)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(pr.Offset()).
		Limit(pr.PageSize).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
