package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	apperrors "savora/internal/errors"
	"savora/internal/models"
)

// tokenService issues and resolves opaque API tokens.
type tokenService struct {
	db    *gorm.DB
	users UserServicer
}

// NewTokenService creates a new TokenServicer.
func NewTokenService(db *gorm.DB, users UserServicer) TokenServicer {
	return &tokenService{db: db, users: users}
}

// HashKey returns the SHA-256 hex digest of a token key. Only digests are
// persisted, so a database leak does not expose usable credentials.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// generateKey returns a 40-character hex token value.
func generateKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Issue verifies the credentials and mints a fresh token for the user,
// superseding any previously issued one. The raw key is returned exactly
// once and never stored.
func (s *tokenService) Issue(email, password string) (string, error) {
	user, err := s.users.AttemptLogin(email, password)
	if err != nil {
		return "", err
	}

	key, err := generateKey()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Token{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Token{UserID: user.ID, KeyHash: HashKey(key)}).Error
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return key, nil
}

// Resolve maps a raw token key to its active user. Any failure mode, from
// an unknown key to a deactivated account, resolves to ErrUnauthorized.
func (s *tokenService) Resolve(key string) (*models.User, error) {
	if key == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var token models.Token
	err := s.db.Preload("User").Where("key_hash = ?", HashKey(key)).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !token.User.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	return &token.User, nil
}
