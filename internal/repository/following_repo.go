package repository

import (
	"Petrel/internal/model"
	"context"

	"gorm.io/gorm"
)

type FollowingRepo interface {
	ListFollowerIDs(ctx context.Context, userID string) ([]string, error)
	ListFolloweeIDs(ctx context.Context, userID string) ([]string, error)
	ListChannelFollowIDs(ctx context.Context, userID string) ([]string, error)
}

type FollowingRepoImpl struct {
	db *gorm.DB
}

func NewFollowingRepo(db *gorm.DB) FollowingRepo {
	return &FollowingRepoImpl{db: db}
}

func (s *FollowingRepoImpl) ListFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Following{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *FollowingRepoImpl) ListFolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Following{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *FollowingRepoImpl) ListChannelFollowIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.ChannelFollowing{}).
		Where("follower_id = ?", userID).
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
