package models

// Validate checks if the post meets all validation requirements
func (p Post) Validate() error {
	return validate.Struct(p)
}

// Metadata projects the post onto its listing fields.
func (p Post) Metadata() PostMetadata {
	return PostMetadata{ID: p.ID, Title: p.Title}
}

// SeedPosts returns a fresh copy of the posts every store starts with.
func SeedPosts() []Post {
	return []Post{
		{ID: 0, Title: "My first post", Content: "This is my first post"},
		{ID: 1, Title: "My second post", Content: "This is my second post"},
		{ID: 2, Title: "My third post", Content: "This is my third post"},
	}
}
