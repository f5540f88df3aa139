package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Confession represents an anonymous confession stored in MongoDB.
// Author is the submitter's private handle and is never exposed by any
// read endpoint; DisplayName is the public one.
type Confession struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Text        string             `json:"confession" bson:"confession"`
	Author      string             `json:"-" bson:"author"`
	DisplayName string             `json:"display_name" bson:"display_name"`
	Likes       int                `json:"likes" bson:"likes"`
	Dislikes    int                `json:"dislikes" bson:"dislikes"`
	LikedIPs    []string           `json:"-" bson:"liked_ips"`
	DislikedIPs []string           `json:"-" bson:"disliked_ips"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Comment is owned by exactly one confession and is append-only.
type Comment struct {
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ConfessionSummary is the public listing projection. It deliberately
// carries no author and no voter IPs.
type ConfessionSummary struct {
	ID           string `json:"id"`
	Text         string `json:"confession"`
	DisplayName  string `json:"display_name"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	CommentCount int    `json:"comment_count"`
}

// VoteState is the dedup bookkeeping for one confession.
type VoteState struct {
	Likes       int
	Dislikes    int
	LikedIPs    []string
	DislikedIPs []string
}

// CreateConfessionRequest defines the request body for submitting a confession
type CreateConfessionRequest struct {
	Text        string `json:"confession" validate:"required"`
	Author      string `json:"author" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// CreateCommentRequest defines the request body for commenting on a confession
type CreateCommentRequest struct {
	Text string `json:"comment" validate:"required"`
}
