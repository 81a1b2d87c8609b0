package es

import (
	"Petrel/internal/model"
	"time"
)

// NoteES is the searchable projection of a note. Only locally visible text
// fields are indexed; reactions and feed bookkeeping stay out.
type NoteES struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserHost   string    `json:"user_host"`
	Visibility string    `json:"visibility"`
	Text       string    `json:"text"`
	CW         string    `json:"cw"`
	Tags       []string  `json:"tags"`
	ChannelID  string    `json:"channel_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NoteToES(n *model.Note) *NoteES {
	return &NoteES{
		ID:         n.ID,
		UserID:     n.UserID,
		UserHost:   n.UserHost,
		Visibility: n.Visibility,
		Text:       n.Text,
		CW:         n.CW,
		Tags:       n.Tags,
		ChannelID:  n.ChannelID,
		CreatedAt:  n.CreatedAt,
	}
}
