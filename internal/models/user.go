package models

// User represents an account in the system. The email address doubles as
// the login identifier and is stored lowercased.
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
	IsStaff  bool   `gorm:"default:false" json:"-"`

	Tags        []Tag        `gorm:"foreignKey:UserID" json:"tags,omitempty"`
	Ingredients []Ingredient `gorm:"foreignKey:UserID" json:"ingredients,omitempty"`
	Recipes     []Recipe     `gorm:"foreignKey:UserID" json:"recipes,omitempty"`
}
