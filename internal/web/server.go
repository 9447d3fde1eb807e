// Package web serves the timer board over HTTP: an HTML page that polls a
// live fragment, and a small JSON API on the same routes the page posts to.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/timerboard/internal/alarm"
	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/render"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr           string
	Version        string
	Presets        []int
	DefaultMinutes int
	// Tone is played by the page in the browser on each new alert.
	Tone alarm.Options
	Log  *logrus.Entry
}

// Server is the HTTP front end of a board.
type Server struct {
	config ServerConfig
	board  *board.Board
	pages  *render.Pages
	log    *logrus.Entry
	mux    *http.ServeMux
	server *http.Server
}

// NewServer creates a server for b.
func NewServer(b *board.Board, cfg ServerConfig) (*Server, error) {
	pages, err := render.NewPages()
	if err != nil {
		return nil, err
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = board.DefaultPresets
	}
	if cfg.DefaultMinutes < 1 {
		cfg.DefaultMinutes = board.DefaultMinutes
	}
	if cfg.Tone.Beeps < 1 {
		cfg.Tone = alarm.DefaultOptions()
	}
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Server{
		config: cfg,
		board:  b,
		pages:  pages,
		log:    log,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	// Page
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /board", s.handleBoard)

	// API
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/timers", s.handleList)
	s.mux.HandleFunc("POST /api/v1/timers", s.handleCreate)
	s.mux.HandleFunc("POST /api/v1/timers/{id}/{action}", s.handleAction)
	s.mux.HandleFunc("DELETE /api/v1/timers/{id}", s.handleDelete)
	s.mux.HandleFunc("POST /api/v1/alert/close", s.handleCloseAlert)
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.log, s.mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.config.Addr).Info("listening")
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) view() render.View {
	v := render.NewView(s.board.Snapshot(), s.config.Presets, s.config.DefaultMinutes)
	v.Tone = render.NewTone(s.config.Tone)
	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.pages.Page(&buf, s.view()); err != nil {
		s.log.WithError(err).Error("render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.pages.Board(&buf, s.view()); err != nil {
		s.log.WithError(err).Error("render board")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version := s.config.Version
	if version == "" {
		version = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newBoardResponse(s.board.Snapshot()))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if isJSON(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		req = CreateRequest{
			Name:   r.PostForm.Get("name"),
			Preset: r.PostForm.Get("preset"),
			Custom: r.PostForm.Get("custom"),
		}
	}

	minutes := board.ParseMinutes(req.Preset, req.Custom, s.config.DefaultMinutes)
	t, ok := s.board.Add(req.Name, minutes)

	if wantsHTML(r) {
		// Blank names from the page are ignored.
		redirectHome(w, r)
		return
	}
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Name is required", "")
		return
	}
	writeJSON(w, http.StatusCreated, newTimer(t))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	switch action := r.PathValue("action"); action {
	case "start":
		s.board.Start(id)
	case "pause":
		s.board.Pause(id)
	case "reset":
		s.board.Reset(id)
	case "confirm":
		s.board.Confirm(id)
	case "delete":
		s.board.Delete(id)
	default:
		writeJSONError(w, http.StatusNotFound, "Unknown action", action)
		return
	}

	s.respond(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s.board.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloseAlert(w http.ResponseWriter, r *http.Request) {
	s.board.CloseAlert()
	s.respond(w, r)
}

// respond finishes a command: the page goes back home, API clients get the
// board.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		redirectHome(w, r)
		return
	}
	writeJSON(w, http.StatusOK, newBoardResponse(s.board.Snapshot()))
}

// parseID reads the {id} path value. Malformed ids are answered with 400;
// ids that parse but match no timer are left to the board, which ignores
// them.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid timer id", raw)
		return 0, false
	}
	return id, true
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// wantsHTML reports whether the request came from a browser form.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}
