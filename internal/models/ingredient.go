package models

// Ingredient is a user-owned ingredient referenced by recipes. Shape and
// lifecycle match Tag, but the two are distinct entity types with their
// own tables.
type Ingredient struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	Recipes []Recipe `gorm:"many2many:recipe_ingredients" json:"recipes,omitempty"`
}
