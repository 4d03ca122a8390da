package controllers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"

	"blogdemo/app/middleware"
	"blogdemo/app/models"
	"blogdemo/app/render"
	"blogdemo/app/services"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

//go:embed views
var views embed.FS

// PageController renders the blog as server-side HTML pages.
type PageController struct {
	blog      services.Blog
	prefix    string
	templates map[string]*template.Template
}

type pageData struct {
	Title         string
	Description   string
	Prefix        string
	Posts         []models.PostMetadata
	Post          *models.Post
	Body          template.HTML
	Comment       *models.Comment
	CommentsError string
	Message       string
}

// NewPageController creates a new PageController serving pages under prefix
func NewPageController(blog services.Blog, prefix string) *PageController {
	return &PageController{
		blog:      blog,
		prefix:    prefix,
		templates: loadTemplates(),
	}
}

// loadTemplates loads and parses all templates
func loadTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template)
	templates["index"] = template.Must(template.ParseFS(views,
		"views/layout.html",
		"views/posts/index.html",
	))
	templates["show"] = template.Must(template.ParseFS(views,
		"views/layout.html",
		"views/posts/show.html",
	))
	templates["error"] = template.Must(template.ParseFS(views,
		"views/layout.html",
		"views/error.html",
	))
	return templates
}

// Index lists every post
func (pc *PageController) Index(w http.ResponseWriter, r *http.Request) {
	metadata, err := pc.blog.ListPostMetadata(r.Context())
	if err != nil {
		pc.sendError(w, r, services.ErrServerError, err)
		return
	}

	pc.render(w, r, "index", http.StatusOK, pageData{
		Title:  "My Great Blog",
		Prefix: pc.prefix,
		Posts:  metadata,
	})
}

// Show displays a single post with its comments. The post and its comments
// are loaded concurrently; a failure loading the post fails the page, while
// a failure loading comments is shown in the comments section.
func (pc *PageController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseID(mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, err, nil)
		return
	}

	var (
		post        *models.Post
		comment     *models.Comment
		commentsErr error
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		p, err := pc.blog.GetPost(ctx, id)
		post, err = services.Resolve(p, err)
		return err
	})
	g.Go(func() error {
		c, err := pc.blog.GetComments(ctx, id)
		comment, commentsErr = services.Resolve(c, err)
		return nil
	})
	if err := g.Wait(); err != nil {
		pc.sendError(w, r, err, err)
		return
	}

	data := pageData{
		Title:       post.Title,
		Description: post.Content,
		Prefix:      pc.prefix,
		Post:        post,
		Body:        render.Markdown(post.Content),
		Comment:     comment,
	}
	if commentsErr != nil {
		pc.logFailure(r, commentsErr)
		data.CommentsError = services.Message(commentsErr)
	}
	pc.render(w, r, "show", http.StatusOK, data)
}

// NotFound renders the error page for unknown paths under the prefix.
func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, "error", http.StatusNotFound, pageData{
		Title:   "Page not found",
		Prefix:  pc.prefix,
		Message: "Page not found.",
	})
}

// Helper methods for consistent response handling

func (pc *PageController) render(w http.ResponseWriter, r *http.Request, name string, status int, data pageData) {
	var buf bytes.Buffer
	if err := pc.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[%s] template %s: %v", middleware.GetRequestID(r.Context()), name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// sendError renders the error page for kind. cause, when set, is logged.
func (pc *PageController) sendError(w http.ResponseWriter, r *http.Request, kind error, cause error) {
	if cause != nil {
		pc.logFailure(r, cause)
	}
	message := services.Message(kind)
	pc.render(w, r, "error", services.StatusCode(kind), pageData{
		Title:   message,
		Prefix:  pc.prefix,
		Message: message,
	})
}

func (pc *PageController) logFailure(r *http.Request, err error) {
	if services.StatusCode(err) < http.StatusInternalServerError {
		return
	}
	if r.Context().Err() == context.Canceled {
		return
	}
	log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(r.Context()), r.Method, r.URL.Path, err)
}
