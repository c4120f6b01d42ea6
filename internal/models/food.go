package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Food is catalog reference data. Macro-nutrients are grams per serving.
type Food struct {
	ID            uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	Protein       float64   `gorm:"not null" json:"protein"`
	Carbohydrates float64   `gorm:"not null" json:"carbohydrates"`
	Fat           float64   `gorm:"not null" json:"fat"`
	Fiber         float64   `gorm:"not null" json:"fiber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (f *Food) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
