package model

import (
	"time"

	"github.com/google/uuid"
)

// TemplatePreference stores a user's saved document template and accent
// color. This is the only record the engine persists; invoices themselves
// are owned by the external invoicing service.
type TemplatePreference struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TemplateKey string    `gorm:"type:varchar(40);not null" json:"template_key"`
	AccentColor string    `gorm:"type:varchar(7)" json:"accent_color"` // #RRGGBB, empty = preset default
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
