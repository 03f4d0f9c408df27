package models

// Token is the opaque API credential bound 1:1 to a user. Only the SHA-256
// digest of the token value is stored; the raw value is returned to the
// client exactly once at issuance. A fresh login replaces the row, which
// invalidates any previously issued token.
type Token struct {
	Base
	UserID  uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	KeyHash string `gorm:"size:64;uniqueIndex;not null" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
