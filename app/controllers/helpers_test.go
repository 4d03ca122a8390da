package controllers

import (
	"context"
	"errors"
	"sync"

	"blogdemo/app/models"
	"blogdemo/app/repositories"
	"blogdemo/app/services"
)

var errUnavailable = errors.New("backend unavailable")

func newTestBlog() *services.BlogService {
	return services.NewBlogService(repositories.NewSeededMemoryStore(), services.DefaultLatency(), services.NoDelay)
}

// stubBlog wraps a Blog, counting calls and optionally failing some of them.
type stubBlog struct {
	services.Blog
	mutex        sync.Mutex
	calls        int
	failList     bool
	failPost     bool
	failComments bool
}

func (s *stubBlog) record() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.calls++
}

func (s *stubBlog) Calls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.calls
}

func (s *stubBlog) ListPostMetadata(ctx context.Context) ([]models.PostMetadata, error) {
	s.record()
	if s.failList {
		return nil, errUnavailable
	}
	return s.Blog.ListPostMetadata(ctx)
}

func (s *stubBlog) GetPost(ctx context.Context, id int) (*models.Post, error) {
	s.record()
	if s.failPost {
		return nil, errUnavailable
	}
	return s.Blog.GetPost(ctx, id)
}

func (s *stubBlog) GetComments(ctx context.Context, postID int) (*models.Comment, error) {
	s.record()
	if s.failComments {
		return nil, errUnavailable
	}
	return s.Blog.GetComments(ctx, postID)
}
