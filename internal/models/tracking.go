package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tracking records that a user ate Quantity servings of a food on EatenDate.
// User and Food are only populated by queries that resolve references.
type Tracking struct {
	ID        uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"size:36;not null;index:idx_trackings_user_eaten,priority:1" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FoodID    uuid.UUID `gorm:"size:36;not null;index" json:"foodId"`
	Food      *Food     `gorm:"foreignKey:FoodID" json:"food,omitempty"`
	Quantity  int       `gorm:"not null;check:chk_trackings_quantity,quantity >= 1" json:"quantity"`
	EatenDate time.Time `gorm:"not null;index:idx_trackings_user_eaten,priority:2" json:"eatenDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tracking) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
