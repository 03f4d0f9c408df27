package models

// Tag is a user-owned label attached to recipes.
type Tag struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	Recipes []Recipe `gorm:"many2many:recipe_tags" json:"recipes,omitempty"`
}
