package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"legal_nexus_go/models"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// TokenSecretLength is the length of the token secret in bytes (64 chars hex)
	TokenSecretLength = 32
)

// IssueAPIToken creates an API token for a user and returns its wire form
// "<id>.<secret>". The secret is shown once; only its bcrypt hash is stored.
func IssueAPIToken(db *gorm.DB, userID, label string) (string, error) {
	secretBytes := make([]byte, TokenSecretLength)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token secret: %w", err)
	}

	token := &models.APIToken{
		UserID:     userID,
		SecretHash: string(hash),
		Label:      label,
	}
	if err := db.Create(token).Error; err != nil {
		return "", fmt.Errorf("failed to create api token: %w", err)
	}

	return fmt.Sprintf("%s.%s", token.ID, secret), nil
}

// ValidateAPIToken resolves a bearer token in "<id>.<secret>" form to its
// user. Revoked tokens and inactive users are rejected.
func ValidateAPIToken(db *gorm.DB, bearer string) (*models.User, error) {
	id, secret, ok := strings.Cut(bearer, ".")
	if !ok || id == "" || secret == "" {
		return nil, fmt.Errorf("malformed token")
	}

	var token models.APIToken
	err := db.Preload("User").First(&token, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("token not found")
		}
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	if token.IsRevoked() {
		return nil, fmt.Errorf("token revoked")
	}

	if bcrypt.CompareHashAndPassword([]byte(token.SecretHash), []byte(secret)) != nil {
		return nil, fmt.Errorf("invalid token secret")
	}

	if !token.User.IsActive {
		return nil, fmt.Errorf("user is inactive")
	}

	now := time.Now()
	db.Model(&token).Update("last_used_at", now)

	return &token.User, nil
}

// RevokeAPIToken marks a token as revoked
func RevokeAPIToken(db *gorm.DB, tokenID string) error {
	now := time.Now()
	result := db.Model(&models.APIToken{}).
		Where("id = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", now)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("token not found or already revoked")
	}
	return nil
}
