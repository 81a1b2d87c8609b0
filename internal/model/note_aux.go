package model

import (
	"time"
)

// Secondary index rows referencing notes. They stay relational under both
// backends and are cleaned up by note id set when a delete cascades.

type NoteFavorite struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)"`
	UserID    string    `gorm:"not null;type:varchar(32);index:idx_fav_user"`
	NoteID    string    `gorm:"not null;type:varchar(32);index:idx_fav_note"`
	CreatedAt time.Time `gorm:"not null"`
}

func (NoteFavorite) TableName() string {
	return "note_favorites"
}

type ClipNote struct {
	ID     string `gorm:"primaryKey;type:varchar(32)"`
	ClipID string `gorm:"not null;type:varchar(32);index:idx_clip"`
	NoteID string `gorm:"not null;type:varchar(32);index:idx_clip_note"`
}

func (ClipNote) TableName() string {
	return "clip_notes"
}

type UserNotePin struct {
	ID     string `gorm:"primaryKey;type:varchar(32)"`
	UserID string `gorm:"not null;type:varchar(32);index:idx_pin_user"`
	NoteID string `gorm:"not null;type:varchar(32);index:idx_pin_note"`
}

func (UserNotePin) TableName() string {
	return "user_note_pins"
}

type ChannelNotePin struct {
	ID        string `gorm:"primaryKey;type:varchar(32)"`
	ChannelID string `gorm:"not null;type:varchar(32);index:idx_ch_pin"`
	NoteID    string `gorm:"not null;type:varchar(32);index:idx_ch_pin_note"`
}

func (ChannelNotePin) TableName() string {
	return "channel_note_pins"
}

type NoteWatching struct {
	ID     string `gorm:"primaryKey;type:varchar(32)"`
	UserID string `gorm:"not null;type:varchar(32);index:idx_watch_user"`
	NoteID string `gorm:"not null;type:varchar(32);index:idx_watch_note"`
}

func (NoteWatching) TableName() string {
	return "note_watchings"
}

type NoteUnread struct {
	ID     string `gorm:"primaryKey;type:varchar(32)"`
	UserID string `gorm:"not null;type:varchar(32);index:idx_unread_user"`
	NoteID string `gorm:"not null;type:varchar(32);index:idx_unread_note"`
}

func (NoteUnread) TableName() string {
	return "note_unreads"
}

type MutedNote struct {
	ID     string `gorm:"primaryKey;type:varchar(32)"`
	UserID string `gorm:"not null;type:varchar(32);index:idx_muted_note_user"`
	NoteID string `gorm:"not null;type:varchar(32);index:idx_muted_note"`
}

func (MutedNote) TableName() string {
	return "muted_notes"
}

type PromoNote struct {
	NoteID    string    `gorm:"primaryKey;type:varchar(32)"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (PromoNote) TableName() string {
	return "promo_notes"
}

type PromoRead struct {
	ID     string `gorm:"primaryKey;type:varchar(32)"`
	UserID string `gorm:"not null;type:varchar(32);index:idx_promo_read_user"`
	NoteID string `gorm:"not null;type:varchar(32);index:idx_promo_read_note"`
}

func (PromoRead) TableName() string {
	return "promo_reads"
}
