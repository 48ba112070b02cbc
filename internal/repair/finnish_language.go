package repair

import (
	"context"
	"fmt"

	"webplatform/internal/models"

	"gorm.io/gorm"
)

// UpdateFinishLanguageCode rewrites the language preference "fi_FI", which
// has no translation, to "fi".
type UpdateFinishLanguageCode struct {
	db *gorm.DB
}

func NewUpdateFinishLanguageCode(db *gorm.DB) *UpdateFinishLanguageCode {
	return &UpdateFinishLanguageCode{db: db}
}

func (s *UpdateFinishLanguageCode) Name() string {
	return "Repair language code for fi_FI to fi"
}

func (s *UpdateFinishLanguageCode) Run(ctx context.Context, out Output) error {
	result := s.db.WithContext(ctx).
		Model(&models.Preference{}).
		Where("appid = ? AND configkey = ? AND configvalue = ?", "core", "lang", "fi_FI").
		Update("configvalue", "fi")
	if result.Error != nil {
		return result.Error
	}

	out.Info(fmt.Sprintf(`Changed %d setting(s) from "fi_FI" to "fi" in properties table.`, result.RowsAffected))
	return nil
}
