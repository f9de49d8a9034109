// internal/devserver/server.go
//
// Development tournament service.
//
// Context
//   A stand-in for the real backend that speaks the same contract the
//   client expects.  Every mutating endpoint answers with the envelope
//   {"success": bool, "message": string}: 200 on success and 400 with the
//   reason otherwise.  The GET pages carry the DOM ids the form controllers
//   bind to, so both the browser client and the headless CLI can drive them.
//
// Routes
//   GET  /                         registration page
//   GET  /success                  post-registration page
//   GET  /tournaments              list with delete buttons
//   GET  /tournaments/new          create page
//   GET  /tournaments/edit/{id}    edit page (unknown id → /tournaments)
//   POST /register
//   POST /tournaments/create
//   POST /tournaments/edit/{id}
//   POST /tournaments/delete/{id}
//   GET  /static/*                 browser client assets
//
//------------------------------------------------------------------------------

package devserver

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/middleware"
)

//go:embed templates/*.html static/*.js
var assets embed.FS

// Service messages on success.
const (
	MsgRegistered = "Registration successful"
	MsgCreated    = "Tournament created successfully"
	MsgUpdated    = "Tournament updated successfully"
	MsgDeleted    = "Tournament deleted successfully"
)

// Server serves the pages and endpoints.
type Server struct {
	store     *Store
	check     *checker
	pages     *template.Template
	log       *zap.SugaredLogger
	staticDir string
}

// Option customises a Server.
type Option func(*Server)

// WithLogger attaches a logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(s *Server) { s.log = l } }

// WithStaticDir serves client.wasm and wasm_exec.js from dir and makes the
// pages load the browser client.
func WithStaticDir(dir string) Option { return func(s *Server) { s.staticDir = dir } }

// New returns a Server backed by store.
func New(store *Store, opts ...Option) (*Server, error) {
	pages, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("devserver: parse templates: %w", err)
	}
	s := &Server{
		store: store,
		check: newChecker(),
		pages: pages,
		log:   zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Observe(s.log))
	r.Use(middleware.Security)

	r.Get("/", s.handleRegistrationPage)
	r.Get("/success", s.handleSuccessPage)
	r.Post("/register", s.handleRegister)

	r.Route("/tournaments", func(tr chi.Router) {
		tr.Get("/", s.handleListPage)
		tr.Get("/new", s.handleCreatePage)
		tr.Get("/edit/{id}", s.handleEditPage)
		tr.Post("/create", s.handleCreate)
		tr.Post("/edit/{id}", s.handleUpdate)
		tr.Post("/delete/{id}", s.handleDelete)
	})

	r.Get("/static/client.js", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, assets, "static/client.js")
	})
	if s.staticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}
	return r
}

/*──────────────────────────── Pages ────────────────────────────────────────*/

type pageData struct {
	Title       string
	Client      bool
	Tournaments []Summary
	Tournament  Tournament
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	data.Client = s.staticDir != ""
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Errorw("render failed", "page", name, "error", err)
	}
}

func (s *Server) handleRegistrationPage(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "registration.html", pageData{Title: "Tournament registration", Tournaments: s.store.Open()})
}

func (s *Server) handleSuccessPage(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "success.html", pageData{Title: "Registration complete"})
}

func (s *Server) handleListPage(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "list.html", pageData{Title: "Tournaments", Tournaments: s.store.List()})
}

func (s *Server) handleCreatePage(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "create.html", pageData{Title: "Create tournament"})
}

func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	t, found := s.store.Get(id)
	if !ok || !found {
		http.Redirect(w, r, "/tournaments", http.StatusSeeOther)
		return
	}
	s.render(w, "edit.html", pageData{Title: "Edit tournament", Tournament: t})
}

/*──────────────────────────── Endpoints ────────────────────────────────────*/

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) reply(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: status == http.StatusOK, Message: msg})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Infow("request rejected",
		"path", r.URL.Path, "reason", err.Error(), "id", middleware.RequestID(r.Context()))
	s.reply(w, http.StatusBadRequest, err.Error())
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := s.check.registration(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	reg, err := s.store.Register(Registration{
		FirstName:    req.FirstName,
		Surname:      req.Surname,
		Email:        req.Email,
		TournamentID: *req.TournamentID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Infow("registration stored", "registration", reg.ID, "tournament", reg.TournamentID)
	s.reply(w, http.StatusOK, MsgRegistered)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := s.check.tournament(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t := s.store.Create(req.toTournament())
	s.log.Infow("tournament created", "tournament", t.ID, "date", t.Date)
	s.reply(w, http.StatusOK, MsgCreated)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, ErrNotFound)
		return
	}
	req, err := s.check.tournament(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Update(id, req.toTournament()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Infow("tournament updated", "tournament", id)
	s.reply(w, http.StatusOK, MsgUpdated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, r, ErrNotFound)
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Infow("tournament deleted", "tournament", id)
	s.reply(w, http.StatusOK, MsgDeleted)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
