// Package client calls the blog API of a remote server. Client implements
// services.Blog, so pages can be served from a remote backend exactly as
// from an in-process one.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogdemo/app/codec"
	"blogdemo/app/models"
	"blogdemo/app/services"

	lru "github.com/hashicorp/golang-lru/v2"
)

const maxResponseSize = 1 << 20

// TransportError reports that a call could not be completed. It never
// means that the requested post does not exist.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the server answered with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

type cacheItem struct {
	body        []byte
	contentType string
	expiresAt   time.Time
}

// Client implements services.Blog over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	codec      codec.Codec
	retries    int
	backoff    time.Duration
	cache      *lru.Cache[string, cacheItem]
	cacheTTL   time.Duration
}

var _ services.Blog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCodec selects the wire format requested from the server.
func WithCodec(cd codec.Codec) Option {
	return func(c *Client) { c.codec = cd }
}

// WithRetries sets how many times a failed call is retried, and the base
// backoff between attempts. Only transport failures are retried.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(c *Client) {
		if retries < 0 {
			retries = 0
		}
		c.retries = retries
		c.backoff = backoff
	}
}

// WithCache keeps up to size successful responses for ttl.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		cache, err := lru.New[string, cacheItem](size)
		if err != nil {
			return
		}
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		codec:      codec.JSON,
		retries:    2,
		backoff:    100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPostMetadata fetches the id and title of every post.
func (c *Client) ListPostMetadata(ctx context.Context) ([]models.PostMetadata, error) {
	var metadata []models.PostMetadata
	if err := c.call(ctx, "list post metadata", "/api/posts", &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// GetPost fetches a post; nil means the server has no post with that id.
func (c *Client) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var post *models.Post
	if err := c.call(ctx, "get post", fmt.Sprintf("/api/posts/%d", id), &post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetComments fetches the comment for a post.
func (c *Client) GetComments(ctx context.Context, postID int) (*models.Comment, error) {
	var comment *models.Comment
	if err := c.call(ctx, "get comments", fmt.Sprintf("/api/posts/%d/comments", postID), &comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *Client) call(ctx context.Context, op, path string, out any) error {
	if item, ok := c.cached(path); ok {
		return c.decode(op, item, out)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			if err := services.Sleep(ctx, c.backoff*time.Duration(attempt)); err != nil {
				return &TransportError{Op: op, Err: err}
			}
		}

		item, err := c.fetch(ctx, path)
		if err == nil {
			if err := c.decode(op, item, out); err != nil {
				return err
			}
			c.store(path, item)
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}
	return &TransportError{Op: op, Err: lastErr}
}

func (c *Client) fetch(ctx context.Context, path string) (cacheItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return cacheItem{}, err
	}
	req.Header.Set("Accept", c.codec.ContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cacheItem{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return cacheItem{}, fmt.Errorf("read response: %w", err)
	}
	item := cacheItem{body: body, contentType: resp.Header.Get("Content-Type")}

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var payload map[string]string
		if c.codecFor(item).Unmarshal(body, &payload) == nil {
			statusErr.Message = payload["error"]
		}
		return cacheItem{}, statusErr
	}
	return item, nil
}

func (c *Client) decode(op string, item cacheItem, out any) error {
	if err := c.codecFor(item).Unmarshal(item.body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) codecFor(item cacheItem) codec.Codec {
	if cd, ok := codec.ForContentType(item.contentType); ok {
		return cd
	}
	return c.codec
}

func (c *Client) cached(path string) (cacheItem, bool) {
	if c.cache == nil {
		return cacheItem{}, false
	}
	item, ok := c.cache.Get(path)
	if !ok {
		return cacheItem{}, false
	}
	if time.Now().After(item.expiresAt) {
		c.cache.Remove(path)
		return cacheItem{}, false
	}
	return item, true
}

func (c *Client) store(path string, item cacheItem) {
	if c.cache == nil {
		return
	}
	item.expiresAt = time.Now().Add(c.cacheTTL)
	c.cache.Add(path, item)
}

// retryable reports whether a failed attempt may succeed if repeated.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
