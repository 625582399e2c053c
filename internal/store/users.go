package store

import (
	"errors"

	"github.com/workbin-dev/workbin/db"
	"github.com/workbin-dev/workbin/internal/auth"
	"github.com/workbin-dev/workbin/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FindUser returns the user row for username, or ErrNotFound.
func FindUser(username string) (*models.User, error) {
	var user models.User

	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Authenticate resolves username/password to a user row.
func Authenticate(username, password string) (*models.User, error) {
	user, err := FindUser(username)

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// CreateUser registers an account with a freshly hashed password. Email is
// optional; when present it must be unused, like the username.
func CreateUser(username, password, fullName string, email *string) (*models.User, error) {
	var existing models.User

	err := db.DB.Where("username = ?", username).First(&existing).Error

	if err == nil {
		return nil, ErrUserExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if email != nil {
		err = db.DB.Where("email = ?", *email).First(&existing).Error

		if err == nil {
			return nil, ErrUserExists
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	passwordHash, err := auth.HashPassword(password)

	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdatePreferences replaces the user's stored UI settings blob.
func UpdatePreferences(userID uint, preferences datatypes.JSON) error {
	return db.DB.Model(&models.User{}).Where("id = ?", userID).Update("preferences", preferences).Error
}
