package model

import (
	"time"
)

// Visibility values a note can carry. The value participates in the scylla
// primary key, so it never changes after creation.
const (
	VisibilityPublic    = "public"
	VisibilityHome      = "home"
	VisibilityFollowers = "followers"
	VisibilitySpecified = "specified"
)

// DriveFile is a denormalized attachment descriptor. There is no foreign key
// back to a drive table; the row carries everything a renderer needs.
type DriveFile struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Blurhash     string `json:"blurhash,omitempty"`
	IsSensitive  bool   `json:"is_sensitive"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Poll is stored inline on the note row.
type Poll struct {
	Choices   []string   `json:"choices"`
	Multiple  bool       `json:"multiple"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NoteEdit is one entry of a note's edit history: the content as it was
// before the edit that created the entry.
type NoteEdit struct {
	Text      string      `json:"text"`
	CW        string      `json:"cw"`
	Files     []DriveFile `json:"files"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Note is the canonical post record. Empty strings stand in for absent
// optional fields so that rows read from either backend compare cleanly.
type Note struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	CreatedAt time.Time `gorm:"not null;index:idx_created_at" json:"created_at"`
	UserID    string    `gorm:"not null;index:idx_user_id;type:varchar(32)" json:"user_id"`
	UserHost  string    `gorm:"type:varchar(255)" json:"user_host"`

	Visibility string `gorm:"not null;type:varchar(16)" json:"visibility"`
	Text       string `gorm:"type:text" json:"text"`
	CW         string `gorm:"type:varchar(512)" json:"cw"`
	LocalOnly  bool   `gorm:"not null;default:0" json:"local_only"`
	URI        string `gorm:"type:varchar(512);index:idx_uri" json:"uri"`
	URL        string `gorm:"type:varchar(512)" json:"url"`

	RenoteCount  int `gorm:"not null;default:0" json:"renote_count"`
	RepliesCount int `gorm:"not null;default:0" json:"replies_count"`
	Score        int `gorm:"not null;default:0" json:"score"`

	Files          []DriveFile `gorm:"serializer:json" json:"files"`
	VisibleUserIDs []string    `gorm:"serializer:json" json:"visible_user_ids"`
	Mentions       []string    `gorm:"serializer:json" json:"mentions"`
	Emojis         []string    `gorm:"serializer:json" json:"emojis"`
	Tags           []string    `gorm:"serializer:json" json:"tags"`

	HasPoll bool  `gorm:"not null;default:0" json:"has_poll"`
	Poll    *Poll `gorm:"serializer:json" json:"poll,omitempty"`

	ChannelID string `gorm:"type:varchar(32);index:idx_channel_id" json:"channel_id"`

	// Reply target plus its denormalized snapshot. The snapshot is refreshed
	// eventually when the target is edited or deleted.
	ReplyID       string      `gorm:"type:varchar(32);index:idx_reply_id" json:"reply_id"`
	ReplyUserID   string      `gorm:"type:varchar(32)" json:"reply_user_id"`
	ReplyUserHost string      `gorm:"type:varchar(255)" json:"reply_user_host"`
	ReplyText     string      `gorm:"type:text" json:"reply_text"`
	ReplyCW       string      `gorm:"type:varchar(512)" json:"reply_cw"`
	ReplyFiles    []DriveFile `gorm:"serializer:json" json:"reply_files"`

	// Renote target plus its denormalized snapshot.
	RenoteID       string      `gorm:"type:varchar(32);index:idx_renote_id" json:"renote_id"`
	RenoteUserID   string      `gorm:"type:varchar(32)" json:"renote_user_id"`
	RenoteUserHost string      `gorm:"type:varchar(255)" json:"renote_user_host"`
	RenoteText     string      `gorm:"type:text" json:"renote_text"`
	RenoteCW       string      `gorm:"type:varchar(512)" json:"renote_cw"`
	RenoteFiles    []DriveFile `gorm:"serializer:json" json:"renote_files"`

	Reactions   map[string]int `gorm:"serializer:json" json:"reactions"`
	EditHistory []NoteEdit     `gorm:"serializer:json" json:"edit_history"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

func (Note) TableName() string {
	return "notes"
}

// CreatedAtDate is the UTC date of the creation timestamp. It fixes which
// partition the canonical row lives in and never changes.
func (n *Note) CreatedAtDate() time.Time {
	t := n.CreatedAt.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsPureRenote reports whether the note is a repost with no content of its
// own. Pure renotes are not cascaded on delete and cannot be renoted or
// replied to.
func (n *Note) IsPureRenote() bool {
	return n.RenoteID != "" && n.Text == "" && !n.HasPoll && len(n.Files) == 0
}

func (n *Note) IsLocal() bool {
	return n.UserHost == ""
}

// HomeFeedEntry is the per-follower denormalized copy of a note, keyed by
// (feed owner, creation date, creation time, author).
type HomeFeedEntry struct {
	FeedUserID string `json:"feed_user_id"`
	Note
}
