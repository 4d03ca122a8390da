package controllers

import (
	"fmt"
	"log"
	"net/http"

	"blogdemo/app/codec"
	"blogdemo/app/middleware"
	"blogdemo/app/services"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/sha3"
)

// APIController exposes the blog read operations over HTTP.
//
// Responses are encoded with the codec negotiated from the Accept header.
// A post id that does not exist is answered with 200 and a null body; only
// a malformed id (400) or a failed call (500) produce an error status.
type APIController struct {
	blog services.Blog
}

// NewAPIController creates a new APIController
func NewAPIController(blog services.Blog) *APIController {
	return &APIController{blog: blog}
}

// ListPostMetadata handles GET /api/posts
func (ac *APIController) ListPostMetadata(w http.ResponseWriter, r *http.Request) {
	metadata, err := ac.blog.ListPostMetadata(r.Context())
	if err != nil {
		ac.sendError(w, r, fmt.Errorf("%w: %w", services.ErrServerError, err))
		return
	}
	ac.sendPayload(w, r, metadata)
}

// GetPost handles GET /api/posts/{id}
func (ac *APIController) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	post, err := ac.blog.GetPost(r.Context(), id)
	if err != nil {
		ac.sendError(w, r, fmt.Errorf("%w: %w", services.ErrServerError, err))
		return
	}
	ac.sendPayload(w, r, post)
}

// GetComments handles GET /api/posts/{id}/comments
func (ac *APIController) GetComments(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		ac.sendError(w, r, err)
		return
	}

	comment, err := ac.blog.GetComments(r.Context(), id)
	if err != nil {
		ac.sendError(w, r, fmt.Errorf("%w: %w", services.ErrServerError, err))
		return
	}
	ac.sendPayload(w, r, comment)
}

// Helper methods for consistent response handling

func (ac *APIController) sendPayload(w http.ResponseWriter, r *http.Request, data interface{}) {
	c := codec.Negotiate(r.Header.Get("Accept"))
	body, err := c.Marshal(data)
	if err != nil {
		ac.sendError(w, r, fmt.Errorf("%w: encode response: %w", services.ErrServerError, err))
		return
	}

	sum := sha3.Sum256(body)
	etag := fmt.Sprintf(`"%x"`, sum[:16])
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Write(body)
}

func (ac *APIController) sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(r.Context()), r.Method, r.URL.Path, err)
	}

	c := codec.Negotiate(r.Header.Get("Accept"))
	body, encErr := c.Marshal(map[string]string{"error": services.Message(err)})
	if encErr != nil {
		http.Error(w, services.Message(err), status)
		return
	}
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(status)
	w.Write(body)
}
