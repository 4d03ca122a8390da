package services

import (
	"context"
	"fmt"

	"blogdemo/app/models"
	"blogdemo/app/repositories"
)

// Blog is the set of read operations offered to the pages and to remote
// callers. An error always means the call itself failed; a post id that
// does not exist is reported as a nil result.
type Blog interface {
	ListPostMetadata(ctx context.Context) ([]models.PostMetadata, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	GetComments(ctx context.Context, postID int) (*models.Comment, error)
}

// BlogService implements Blog on top of a ContentStore, waiting the
// configured latency before answering each call.
type BlogService struct {
	store   repositories.ContentStore
	latency Latency
	delay   Delay
}

// NewBlogService creates a new BlogService. A nil delay means Sleep.
func NewBlogService(store repositories.ContentStore, latency Latency, delay Delay) *BlogService {
	if delay == nil {
		delay = Sleep
	}
	return &BlogService{
		store:   store,
		latency: latency,
		delay:   delay,
	}
}

// ListPostMetadata returns the id and title of every post in store order.
func (s *BlogService) ListPostMetadata(ctx context.Context) ([]models.PostMetadata, error) {
	if err := s.delay(ctx, s.latency.Metadata); err != nil {
		return nil, fmt.Errorf("list post metadata: %w", err)
	}

	posts := s.store.List()
	metadata := make([]models.PostMetadata, 0, len(posts))
	for _, post := range posts {
		metadata = append(metadata, post.Metadata())
	}
	return metadata, nil
}

// GetPost returns the post with the given id, or nil if there is none.
func (s *BlogService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	if err := s.delay(ctx, s.latency.Post); err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	post, ok := s.store.Find(id)
	if !ok {
		return nil, nil
	}
	return &post, nil
}

// GetComments returns the comment for postID. It never reports absence.
func (s *BlogService) GetComments(ctx context.Context, postID int) (*models.Comment, error) {
	if err := s.delay(ctx, s.latency.Comments); err != nil {
		return nil, fmt.Errorf("get comments for post %d: %w", postID, err)
	}

	comment := models.NewComment(postID)
	return &comment, nil
}
