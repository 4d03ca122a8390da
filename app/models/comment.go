package models

import "fmt"

// syntheticCommentID is the id carried by every generated comment.
const syntheticCommentID = 1

// Validate checks if the comment meets all validation requirements
func (c Comment) Validate() error {
	return validate.Struct(c)
}

// NewComment builds the comment served for postID. The result depends only
// on postID.
func NewComment(postID int) Comment {
	return Comment{
		ID:      syntheticCommentID,
		Content: fmt.Sprintf("Comment for post: %d", postID),
	}
}
