package model

import "time"

type Post struct {
	ID             int       `json:"id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	PersonID       int       `json:"person_id"`
	AuthorUsername string    `json:"author_username"`
}

// Comment carries its parent id so clients can rebuild the reply tree.
type Comment struct {
	ID              int       `json:"id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	ParentCommentID *int      `json:"parent_comment_id,omitempty"`
	PersonID        int       `json:"person_id"`
	AuthorUsername  string    `json:"author_username"`
}

// ReactionCount is one row of the reaction-type histogram. Types nobody
// used still appear with Count 0.
type ReactionCount struct {
	ReactionTypeID int    `json:"reaction_type_id"`
	Name           string `json:"name"`
	Count          int    `json:"count"`
}

type PostDetail struct {
	Post
	Comments  []Comment       `json:"comments"`
	Reactions []ReactionCount `json:"reactions"`
}

// ReactionOutcome distinguishes what the reaction upsert actually did.
type ReactionOutcome int

const (
	ReactionUnchanged ReactionOutcome = iota
	ReactionCreated
	ReactionUpdated
)
