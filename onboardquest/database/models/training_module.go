package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TrainingModule holds the admin-managed material for a catalog module.
type TrainingModule struct {
	bun.BaseModel `bun:"table:training_modules,alias:tm"`

	ModuleID        string    `bun:"module_id,pk" json:"moduleId"`
	Name            string    `bun:"name,notnull" json:"name"`
	Title           string    `bun:"title,notnull" json:"title"`
	Duration        string    `bun:"duration,notnull" json:"duration"`
	PresentationRef string    `bun:"presentation_ref,notnull" json:"presentationRef,omitempty"`
	InfographicRef  string    `bun:"infographic_ref,notnull" json:"infographicRef,omitempty"`
	UploadedBy      string    `bun:"uploaded_by,notnull" json:"uploadedBy"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
