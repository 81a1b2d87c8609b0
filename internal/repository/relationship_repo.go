package repository

import (
	"Petrel/internal/model"
	"context"

	"gorm.io/gorm"
)

type RelationshipRepo interface {
	ListMutedUserIDs(ctx context.Context, muterID string) ([]string, error)
	ListRenoteMutedIDs(ctx context.Context, muterID string) ([]string, error)
	// ListBlockingIDs returns both directions: users the owner blocked and
	// users blocking the owner.
	ListBlockingIDs(ctx context.Context, userID string) ([]string, error)
}

type RelationshipRepoImpl struct {
	db *gorm.DB
}

func NewRelationshipRepo(db *gorm.DB) RelationshipRepo {
	return &RelationshipRepoImpl{db: db}
}

func (s *RelationshipRepoImpl) ListMutedUserIDs(ctx context.Context, muterID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Muting{}).
		Where("muter_id = ?", muterID).
		Pluck("mutee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RelationshipRepoImpl) ListRenoteMutedIDs(ctx context.Context, muterID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.RenoteMuting{}).
		Where("muter_id = ?", muterID).
		Pluck("mutee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RelationshipRepoImpl) ListBlockingIDs(ctx context.Context, userID string) ([]string, error) {
	var blockees []string
	err := s.db.WithContext(ctx).Model(&model.Blocking{}).
		Where("blocker_id = ?", userID).
		Pluck("blockee_id", &blockees).Error
	if err != nil {
		return nil, err
	}

	var blockers []string
	err = s.db.WithContext(ctx).Model(&model.Blocking{}).
		Where("blockee_id = ?", userID).
		Pluck("blocker_id", &blockers).Error
	if err != nil {
		return nil, err
	}

	return append(blockees, blockers...), nil
}
