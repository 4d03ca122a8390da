package repositories

import "blogdemo/app/models"

// MemoryStore implements ContentStore over a fixed list of posts.
type MemoryStore struct {
	*snapshot
}

// NewMemoryStore creates a MemoryStore holding a copy of posts.
func NewMemoryStore(posts []models.Post) (*MemoryStore, error) {
	s, err := newSnapshot(posts)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{snapshot: s}, nil
}

// NewSeededMemoryStore creates a MemoryStore holding the seed posts.
func NewSeededMemoryStore() *MemoryStore {
	store, err := NewMemoryStore(models.SeedPosts())
	if err != nil {
		panic(err)
	}
	return store
}
