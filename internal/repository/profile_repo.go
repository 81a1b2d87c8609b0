package repository

import (
	"Petrel/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProfileRepo interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
}

type ProfileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &ProfileRepoImpl{db: db}
}

func (s *ProfileRepoImpl) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
