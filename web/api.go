package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/internal/markdown"
	internalstrings "github.com/amonks/taskmaster/internal/strings"
	"github.com/amonks/taskmaster/matching"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/roster"
	"github.com/amonks/taskmaster/task"
	"github.com/amonks/taskmaster/tracking"
)

const maxBodyBytes = 1 << 20

type createRequest struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

type locationsRequest struct {
	Locations []task.Location `json:"locations"`
}

type quoteRequest struct {
	Coupon string `json:"coupon,omitempty"`
}

type quoteResponse struct {
	booking.Quote
	Formatted string `json:"formatted"`
}

type progressResponse struct {
	Status    task.Status       `json:"status"`
	Searching bool              `json:"searching"`
	Stage     *matching.Stage   `json:"stage,omitempty"`
	Progress  tracking.Progress `json:"progress"`
	Tasker    *task.Tasker      `json:"tasker,omitempty"`
}

type emptyResponse struct{}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.currentSession().Snapshot()
	if err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := decodeBody(w, r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if internalstrings.IsBlank(payload.Description) {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("description is required"))
		return
	}
	var category task.Category
	if !internalstrings.IsBlank(payload.Category) {
		parsed, err := task.ParseCategory(payload.Category)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		category = parsed
	}

	created, err := s.newSession().Begin(payload.Description, category)
	if err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	s.currentSession().Close()
	s.store.Reset()
	writeJSON(w, http.StatusOK, emptyResponse{})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	var payload locationsRequest
	if err := decodeBody(w, r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.currentSession().SetLocations(payload.Locations); err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	s.writeCurrentTask(w, r)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	current, ok := s.store.Current()
	if !ok {
		s.writeBookingError(w, r, booking.ErrNoTask)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("read request: %w", err))
		return
	}
	details, err := task.DecodeDetails(current.Category, data)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.currentSession().SetDetails(details); err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	s.writeCurrentTask(w, r)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var payload quoteRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &payload); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	quote, err := s.currentSession().Quote(payload.Coupon)
	if err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Quote: quote, Formatted: pricing.FormatPrice(quote.Payable())})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession()
	if err := session.Confirm(); err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	s.writeSnapshot(w, r, session)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession()
	if err := session.Cancel(); err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	s.writeCurrentTask(w, r)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.currentSession().Snapshot()
	if err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{
		Status:    snapshot.Task.Status,
		Searching: snapshot.Searching,
		Stage:     snapshot.Stage,
		Progress:  snapshot.Progress,
		Tasker:    snapshot.Task.Tasker,
	})
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	current, ok := s.store.Current()
	if !ok {
		s.writeBookingError(w, r, booking.ErrNoTask)
		return
	}
	coupon := strings.TrimSpace(r.URL.Query().Get("coupon"))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, markdown.Receipt(current, markdown.ReceiptOptions{Coupon: coupon}))
}

func (s *Server) handleTaskers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roster.Taskers())
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roster.Places())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roster.Templates())
}

func (s *Server) writeCurrentTask(w http.ResponseWriter, r *http.Request) {
	current, ok := s.store.Current()
	if !ok {
		s.writeBookingError(w, r, booking.ErrNoTask)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, session *booking.Session) {
	snapshot, err := session.Snapshot()
	if err != nil {
		s.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, bookingErrorStatus(err), err)
}

func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrNoTask):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrNotDraft),
		errors.Is(err, booking.ErrAlreadyConfirmed),
		errors.Is(err, booking.ErrFinished):
		return http.StatusConflict
	case errors.Is(err, matching.ErrEmptyRoster):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return decodeJSON(r, dest)
}
