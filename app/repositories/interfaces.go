package repositories

import "blogdemo/app/models"

// ContentStore defines read-only access to the posts of the blog.
// Implementations are immutable after construction and safe for
// concurrent use without locking.
type ContentStore interface {
	// List returns every post in insertion order.
	List() []models.Post
	// Find returns the post with the given id. The bool is false when no
	// post matches; absence is not an error.
	Find(id int) (models.Post, bool)
}
