package models

import "time"

// ConfessionRecord is the SQL shape of a confession. IDs are UUID strings
// assigned by the repository, unlike the Mongo backend's ObjectIDs.
type ConfessionRecord struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Text        string    `gorm:"not null"`
	Author      string    `gorm:"not null"`
	DisplayName string    `gorm:"not null"`
	Likes       int       `gorm:"not null;default:0"`
	Dislikes    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
}

// VoteRecord is one (confession, vote kind, IP) row. The unique index is
// what makes the duplicate-vote check atomic under concurrent requests.
type VoteRecord struct {
	ID           uint   `gorm:"primaryKey"`
	ConfessionID string `gorm:"size:36;not null;uniqueIndex:idx_vote_dedup,priority:1"`
	Kind         string `gorm:"size:8;not null;uniqueIndex:idx_vote_dedup,priority:2"`
	IP           string `gorm:"size:45;not null;uniqueIndex:idx_vote_dedup,priority:3"`
	CreatedAt    time.Time
}

// CommentRecord is the SQL shape of a comment.
type CommentRecord struct {
	ID           uint   `gorm:"primaryKey"`
	ConfessionID string `gorm:"size:36;not null;index"`
	Text         string `gorm:"not null"`
	CreatedAt    time.Time
}
