package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"blogdemo/app/models"
)

const (
	// PostKeyPrefix prefixes every post record in the badger keyspace.
	PostKeyPrefix = "post:"
)

var (
	ErrDuplicateID = errors.New("duplicate post id")
)

// postKey builds the badger key for the post stored at position seq.
// Zero padding keeps badger's lexical iteration order equal to insertion order.
func postKey(seq int) []byte {
	return []byte(fmt.Sprintf("%s%010d", PostKeyPrefix, seq))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// snapshot is the immutable in-memory view shared by the store implementations.
type snapshot struct {
	posts []models.Post
	byID  map[int]int
}

// newSnapshot validates posts and indexes them by id.
func newSnapshot(posts []models.Post) (*snapshot, error) {
	s := &snapshot{
		posts: make([]models.Post, len(posts)),
		byID:  make(map[int]int, len(posts)),
	}
	copy(s.posts, posts)
	for i, post := range s.posts {
		if err := post.Validate(); err != nil {
			return nil, fmt.Errorf("invalid post %d: %w", post.ID, err)
		}
		if _, exists := s.byID[post.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, post.ID)
		}
		s.byID[post.ID] = i
	}
	return s, nil
}

func (s *snapshot) List() []models.Post {
	posts := make([]models.Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

func (s *snapshot) Find(id int) (models.Post, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Post{}, false
	}
	return s.posts[i], true
}
