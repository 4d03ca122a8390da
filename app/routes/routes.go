package routes

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"blogdemo/app/controllers"
	"blogdemo/app/middleware"
	"blogdemo/app/services"

	"github.com/gorilla/mux"
)

// Setup builds the application router: the JSON/MessagePack API under /api
// and the HTML pages under prefix, which must look like "/blog".
func Setup(blog services.Blog, prefix string) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	apiController := controllers.NewAPIController(blog)
	pageController := controllers.NewPageController(blog, prefix)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/posts", apiController.ListPostMetadata).Methods("GET")
	api.HandleFunc("/posts/{id}", apiController.GetPost).Methods("GET")
	api.HandleFunc("/posts/{id}/comments", apiController.GetComments).Methods("GET")

	// Web routes
	router.HandleFunc(prefix, pageController.Index).Methods("GET")
	router.HandleFunc(prefix+"/{id}", pageController.Show).Methods("GET")
	router.Handle("/", http.RedirectHandler(prefix, http.StatusFound)).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
			return
		}
		pageController.NotFound(w, r)
	})

	return router
}

// StartServer serves handler on addr until ctx is cancelled, then shuts
// down gracefully. If ready is not nil it receives the bound address.
func StartServer(ctx context.Context, addr string, handler http.Handler, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Printf("Listening on %s", ln.Addr())
	if ready != nil {
		ready <- ln.Addr()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
