package models

import "github.com/shopspring/decimal"

// Recipe is the central entity: scalar fields plus unordered many-to-many
// relations to the owner's tags and ingredients. Price uses an exact
// decimal column and serializes as a string, so amounts like 5.50 survive
// a round trip untouched.
type Recipe struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Title       string          `gorm:"not null" json:"title"`
	TimeMinutes int             `gorm:"not null;default:0" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"price"`
	Link        string          `json:"link"`
	Image       string          `json:"image"`

	Tags        []Tag        `gorm:"many2many:recipe_tags" json:"tags,omitempty"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients" json:"ingredients,omitempty"`
}
