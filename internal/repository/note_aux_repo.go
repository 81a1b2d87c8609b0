package repository

import (
	"Petrel/internal/model"
	"context"

	"gorm.io/gorm"
)

// NoteAuxRepo owns the secondary index rows referencing notes. When a delete
// cascades, every row pointing at the deleted id set goes with it.
type NoteAuxRepo interface {
	DeleteByNoteIDs(ctx context.Context, noteIDs []string) error
}

type NoteAuxRepoImpl struct {
	db *gorm.DB
}

func NewNoteAuxRepo(db *gorm.DB) NoteAuxRepo {
	return &NoteAuxRepoImpl{db: db}
}

func (s *NoteAuxRepoImpl) DeleteByNoteIDs(ctx context.Context, noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}

	targets := []interface{}{
		&model.NoteFavorite{},
		&model.ClipNote{},
		&model.UserNotePin{},
		&model.ChannelNotePin{},
		&model.NoteWatching{},
		&model.NoteUnread{},
		&model.MutedNote{},
		&model.PromoNote{},
		&model.PromoRead{},
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, target := range targets {
			if err := tx.Where("note_id IN ?", noteIDs).Delete(target).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
