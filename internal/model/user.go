package model

import (
	"time"
)

// User rows always live in the relational database, whichever note backend is
// active. Only the fields the timeline store consults are modeled here.
type User struct {
	ID          string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username    string    `gorm:"not null;type:varchar(128);index:idx_username" json:"username"`
	Host        string    `gorm:"type:varchar(255);index:idx_host" json:"host"`
	URI         string    `gorm:"type:varchar(512)" json:"uri"`
	Inbox       string    `gorm:"type:varchar(512)" json:"inbox"`
	SharedInbox string    `gorm:"type:varchar(512)" json:"shared_inbox"`
	IsSuspended bool      `gorm:"not null;default:0" json:"is_suspended"`
	IsSilenced  bool      `gorm:"not null;default:0" json:"is_silenced"`
	CreatedAt   time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsLocal() bool {
	return u.Host == ""
}

// UserProfile carries the per-user filtering settings consumed by the filter
// pipeline. MutedWords is a list of conjunctive token rules; MutedPatterns
// hold "/body/flags" regular expressions.
type UserProfile struct {
	UserID         string     `gorm:"primaryKey;type:varchar(32)" json:"user_id"`
	MutedWords     [][]string `gorm:"serializer:json" json:"muted_words"`
	MutedPatterns  []string   `gorm:"serializer:json" json:"muted_patterns"`
	MutedInstances []string   `gorm:"serializer:json" json:"muted_instances"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

type Following struct {
	ID         uint64 `gorm:"primaryKey"`
	FollowerID string `gorm:"not null;type:varchar(32);uniqueIndex:idx_follow_pair,priority:1" json:"follower_id"`
	FolloweeID string `gorm:"not null;type:varchar(32);uniqueIndex:idx_follow_pair,priority:2" json:"followee_id"`
}

func (Following) TableName() string {
	return "followings"
}

type ChannelFollowing struct {
	ID         uint64 `gorm:"primaryKey"`
	FollowerID string `gorm:"not null;type:varchar(32);index:idx_channel_follower" json:"follower_id"`
	ChannelID  string `gorm:"not null;type:varchar(32)" json:"channel_id"`
}

func (ChannelFollowing) TableName() string {
	return "channel_followings"
}

type Muting struct {
	ID      uint64 `gorm:"primaryKey"`
	MuterID string `gorm:"not null;type:varchar(32);index:idx_muter" json:"muter_id"`
	MuteeID string `gorm:"not null;type:varchar(32)" json:"mutee_id"`
}

func (Muting) TableName() string {
	return "mutings"
}

type RenoteMuting struct {
	ID      uint64 `gorm:"primaryKey"`
	MuterID string `gorm:"not null;type:varchar(32);index:idx_renote_muter" json:"muter_id"`
	MuteeID string `gorm:"not null;type:varchar(32)" json:"mutee_id"`
}

func (RenoteMuting) TableName() string {
	return "renote_mutings"
}

type Blocking struct {
	ID        uint64 `gorm:"primaryKey"`
	BlockerID string `gorm:"not null;type:varchar(32);index:idx_blocker" json:"blocker_id"`
	BlockeeID string `gorm:"not null;type:varchar(32);index:idx_blockee" json:"blockee_id"`
}

func (Blocking) TableName() string {
	return "blockings"
}

type Channel struct {
	ID     string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name   string `gorm:"not null;type:varchar(128)" json:"name"`
	UserID string `gorm:"not null;type:varchar(32)" json:"user_id"`
}

func (Channel) TableName() string {
	return "channels"
}
