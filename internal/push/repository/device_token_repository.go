package repository

import (
	pushdomain "sansynapse-backend/internal/push/domain"

	"gorm.io/gorm"
)

// DeviceTokenRepository reads device registrations from the profile store.
type DeviceTokenRepository interface {
	GetTokenByUserID(userID string) (string, error)
}

// deviceTokenRepository implements DeviceTokenRepository interface
type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a new instance of deviceTokenRepository
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{
		db: db,
	}
}

// GetTokenByUserID returns the most recently refreshed device token for a
// user. gorm.ErrRecordNotFound means the user has no registered device.
func (r *deviceTokenRepository) GetTokenByUserID(userID string) (string, error) {
	var token pushdomain.DeviceToken
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").First(&token).Error
	if err != nil {
		return "", err
	}
	return token.Token, nil
}
