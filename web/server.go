// Package web serves the booking API and the tracking page.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/task"
)

const shutdownTimeout = 5 * time.Second

// ServerOptions configures a booking server.
type ServerOptions struct {
	// Booking configures the session created for each new task. Its Store
	// field is ignored; the server owns the store.
	Booking booking.Options
	Logger  *log.Logger
}

// Server exposes one booking session over HTTP.
type Server struct {
	store     *task.Store
	logger    *log.Logger
	templates *templateWrapper

	mu      sync.Mutex
	opts    booking.Options
	session *booking.Session
}

// NewServer creates a booking server with an empty store.
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "taskmaster: ", log.LstdFlags)
	}
	bookingOpts := opts.Booking
	if bookingOpts.Clock == nil {
		bookingOpts.Clock = clock.Real{}
	}
	store := task.NewStore(task.StoreOptions{Now: bookingOpts.Clock.Now})
	bookingOpts.Store = store

	return &Server{
		store:     store,
		logger:    logger,
		templates: newTemplateWrapper(),
		opts:      bookingOpts,
		session:   booking.NewSession(bookingOpts),
	}
}

// Reconfigure replaces the booking options. The running task keeps its
// session; the next task created uses the new options.
func (s *Server) Reconfigure(opts booking.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.Clock == nil {
		opts.Clock = s.opts.Clock
	}
	opts.Store = s.store
	s.opts = opts
	s.logf("configuration reloaded")
}

// Store returns the store shared by every session.
func (s *Server) Store() *task.Store {
	return s.store
}

// Close stops the running simulators.
func (s *Server) Close() {
	s.currentSession().Close()
}

func (s *Server) currentSession() *booking.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// newSession replaces the current session with one built from the latest
// options.
func (s *Server) newSession() *booking.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Close()
	s.session = booking.NewSession(s.opts)
	return s.session
}

// Handler returns the HTTP handler for the API and the web pages.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/task", s.handleTaskGet)
	mux.HandleFunc("POST /api/task", s.handleTaskCreate)
	mux.HandleFunc("DELETE /api/task", s.handleTaskDelete)
	mux.HandleFunc("PUT /api/task/locations", s.handleLocations)
	mux.HandleFunc("PUT /api/task/details", s.handleDetails)
	mux.HandleFunc("POST /api/task/quote", s.handleQuote)
	mux.HandleFunc("POST /api/task/confirm", s.handleConfirm)
	mux.HandleFunc("POST /api/task/cancel", s.handleCancel)
	mux.HandleFunc("GET /api/task/progress", s.handleProgress)
	mux.HandleFunc("GET /api/task/receipt", s.handleReceipt)
	mux.HandleFunc("GET /api/taskers", s.handleTaskers)
	mux.HandleFunc("GET /api/places", s.handlePlaces)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /web/tracking", s.handleTracking)
	mux.Handle("GET /web", http.RedirectHandler("/web/tracking", http.StatusFound))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/web/tracking", http.StatusFound)
	})
	return s.recoverHandler(mux)
}

// Serve runs the server on addr until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logf("listening on %s", addr)

	select {
	case err := <-listenErrs:
		s.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
		s.logf("shutting down")
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		if errors.Is(shutdownErr, http.ErrServerClosed) {
			shutdownErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logRequestError(r, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
