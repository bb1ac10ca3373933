// Package web exposes a small read/import HTTP API over the board store.
// There is no auth and no live sync: the engine is single-user and
// local-first, the API exists for browser frontends on the same machine.
package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/amirbrooks/flowboard/internal/share"
	"github.com/amirbrooks/flowboard/internal/state"
)

type Server struct {
	store *state.Store
}

func NewServer(store *state.Store) *Server {
	return &Server{store: store}
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.handleState).Methods("GET")
	r.HandleFunc("/api/boards/{id}", s.handleBoard).Methods("GET")
	r.HandleFunc("/api/boards/{id}/export", s.handleExport).Methods("GET")
	r.HandleFunc("/api/import", s.handleImport).Methods("POST")
	r.HandleFunc("/share", s.handleShareDecode).Methods("GET")
	r.HandleFunc("/draw", s.handleDraw).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	log.Printf("web: listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	b, ok := s.store.Board(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Export(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := share.ExportFilename(p.Board.Title, time.Now(), "json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var p share.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "malformed payload: "+err.Error())
		return
	}
	createNew := r.URL.Query().Get("createNew") == "true"
	b, err := s.store.Import(p, createNew)
	if err != nil {
		if errors.Is(err, state.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleShareDecode unpacks a ?board= share payload without merging it, so a
// frontend can show the collision dialog before committing to an import.
func (s *Server) handleShareDecode(w http.ResponseWriter, r *http.Request) {
	encoded := r.URL.Query().Get(share.BoardParam)
	if encoded == "" {
		writeError(w, http.StatusBadRequest, "missing board parameter")
		return
	}
	p, err := share.Decode(encoded)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, collision := s.store.FindBoardByTitle(p.Board.Title)
	writeJSON(w, http.StatusOK, struct {
		Payload       share.Payload `json:"payload"`
		TitleConflict bool          `json:"titleConflict"`
	}{p, collision})
}

// handleDraw serves the diagram deep link: load (or create, if absent) the
// diagram bound to the task.
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("taskId")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "missing taskId parameter")
		return
	}
	d, err := s.store.OpenTaskDiagram(taskID)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{msg})
}
