package service

import (
	"errors"
	"feednana/internal/repo"
	"feednana/model"
	"feednana/utils"

	"gorm.io/gorm"
)

// CreateUser inserts a user record.
func CreateUser(user *model.User) error {
	return repo.Db.Model(&model.User{}).Create(user).Error
}

// FindIdByUsername returns the user id for a username.
func FindIdByUsername(username string) (uint64, error) {
	var user model.User
	err := repo.Db.Select("id").Where("user_name = ?", username).First(&user).Error
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// GetUserById finds a user by id.
func GetUserById(id uint64) (*model.User, error) {
	var user model.User
	err := repo.Db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsExist checks whether the username is taken.
func IsExist(username string) (bool, error) {
	var user model.User
	err := repo.Db.Select("id").Where("user_name = ?", username).First(&user).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// IsEmailExist checks whether the email is taken.
func IsEmailExist(email string) (bool, error) {
	var user model.User
	err := repo.Db.Select("id").Where("email = ?", email).First(&user).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// CheckPassword verifies login credentials for an activated account.
func CheckPassword(username, password string) (*model.User, error) {
	var user model.User
	err := repo.Db.Where("user_name = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("account not activated")
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, errors.New("wrong password")
	}
	return &user, nil
}

// ActivateUser flips a user to active.
func ActivateUser(id uint64) error {
	return repo.Db.Model(&model.User{}).Where("id = ?", id).Update("is_active", true).Error
}

// IsModerator reports whether the user may act on other users' content.
func IsModerator(id uint64) bool {
	var user model.User
	if err := repo.Db.Select("is_moderator").Where("id = ?", id).First(&user).Error; err != nil {
		return false
	}
	return user.IsModerator
}
