package repository

import (
	"context"

	"docgen/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository persists the user's saved template choice, the only
// record this service owns.
type PreferenceRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TemplatePreference, error)
	Upsert(ctx context.Context, pref *model.TemplatePreference) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TemplatePreference, error) {
	var pref model.TemplatePreference
	if err := r.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, pref *model.TemplatePreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"template_key", "accent_color", "updated_at"}),
	}).Create(pref).Error
}
