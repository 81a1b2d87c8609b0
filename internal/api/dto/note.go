package dto

import (
	"Petrel/internal/model"
)

type NoteCreateDTO struct {
	Text           string            `json:"text"`
	CW             string            `json:"cw"`
	Visibility     string            `json:"visibility" binding:"omitempty,oneof=public home followers specified"`
	VisibleUserIDs []string          `json:"visible_user_ids"`
	LocalOnly      bool              `json:"local_only"`
	ChannelID      string            `json:"channel_id"`
	ReplyID        string            `json:"reply_id"`
	RenoteID       string            `json:"renote_id"`
	Files          []model.DriveFile `json:"files"`
	Poll           *model.Poll       `json:"poll"`
	Tags           []string          `json:"tags"`
	Mentions       []string          `json:"mentions"`
}

// NoteEditDTO optionally repeats the note's visibility; a value that differs
// from the stored one is rejected, visibility is fixed at creation.
type NoteEditDTO struct {
	Text       string            `json:"text"`
	CW         string            `json:"cw"`
	Visibility string            `json:"visibility" binding:"omitempty,oneof=public home followers specified"`
	Files      []model.DriveFile `json:"files"`
	Poll       *model.Poll       `json:"poll"`
}

// TimelineQueryDTO is the cursor every timeline endpoint accepts. Dates are
// unix milliseconds; when both an id and a date bound are present the more
// restrictive one wins.
type TimelineQueryDTO struct {
	SinceID     string `form:"since_id"`
	UntilID     string `form:"until_id"`
	SinceDate   int64  `form:"since_date"`
	UntilDate   int64  `form:"until_date"`
	Limit       int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	WithReplies bool   `form:"with_replies"`
}

type SearchQueryDTO struct {
	Query string `form:"q" binding:"required"`
	From  int    `form:"from" binding:"omitempty,min=0"`
	Size  int    `form:"size,default=20" binding:"omitempty,min=1,max=100"`
}
