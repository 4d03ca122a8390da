package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Post represents a blog post.
type Post struct {
	ID      int    `json:"id" msgpack:"id" validate:"gte=0"`
	Title   string `json:"title" msgpack:"title" validate:"required,max=200"`
	Content string `json:"content" msgpack:"content" validate:"required"`
}

// PostMetadata is the id and title of a post, used for listings.
type PostMetadata struct {
	ID    int    `json:"id" msgpack:"id"`
	Title string `json:"title" msgpack:"title"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID      int    `json:"id" msgpack:"id" validate:"gte=0"`
	Content string `json:"content" msgpack:"content" validate:"required,max=500"`
}
