// Package demo serves a small login site with the same form contract as the target shop:
// user-name, password and login-button inputs, a [data-test='error'] banner, a .login_logo
// header and /inventory.html behind a session cookie. The browser tests and
// `pagecheck --demo` run against it.
package demo

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"
)

//go:embed templates static
var content embed.FS

// Password is accepted for every known user.
const Password = "secret_sauce"

// user names
const (
	StandardUser          = "standard_user"
	LockedOutUser         = "locked_out_user"
	ProblemUser           = "problem_user"
	PerformanceGlitchUser = "performance_glitch_user"
)

// login error messages
const (
	ErrUsernameRequired = "Epic sadface: Username is required"
	ErrPasswordRequired = "Epic sadface: Password is required"
	ErrLockedOut        = "Epic sadface: Sorry, this user has been locked out."
	ErrMismatch         = "Epic sadface: Username and password do not match any user in this service"
	ErrNotLoggedIn      = "Epic sadface: You can only access '/inventory.html' when you are logged in."
)

// SessionCookie holds the logged in user name.
const SessionCookie = "session-username"

// DefaultGlitchDelay is how long performance_glitch_user waits before landing.
const DefaultGlitchDelay = 2 * time.Second

type item struct {
	Name  string
	Price float64
}

var inventory = []item{
	{"Sauce Labs Backpack", 29.99},
	{"Sauce Labs Bike Light", 9.99},
	{"Sauce Labs Bolt T-Shirt", 15.99},
	{"Sauce Labs Fleece Jacket", 49.99},
	{"Sauce Labs Onesie", 7.99},
	{"Test.allTheThings() T-Shirt (Red)", 15.99},
}

type logger interface {
	Info(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}

// Server is the demo site.
type Server struct {
	glitchDelay time.Duration
	log         logger
	tmpl        *template.Template
	mux         *http.ServeMux

	mu  sync.Mutex
	srv *http.Server
	url string
}

// Option customizes New.
type Option func(*Server)

// WithGlitchDelay sets the login delay of performance_glitch_user.
func WithGlitchDelay(d time.Duration) Option {
	return func(s *Server) { s.glitchDelay = d }
}

// WithLogger logs logins and served pages.
func WithLogger(l logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates the demo site.
func New(opts ...Option) (*Server, error) {
	tmpl, err := template.ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{glitchDelay: DefaultGlitchDelay, log: nopLogger{}, tmpl: tmpl}
	for _, opt := range opts {
		opt(s)
	}

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		return nil, fmt.Errorf("static filesystem: %w", err)
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /{$}", s.handleLoginPage)
	s.mux.HandleFunc("POST /{$}", s.handleLogin)
	s.mux.HandleFunc("GET /inventory.html", s.handleInventory)
	s.mux.HandleFunc("GET /logout", s.handleLogout)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return s, nil
}

// Users lists the accepted user names.
func Users() []string {
	return []string{StandardUser, LockedOutUser, ProblemUser, PerformanceGlitchUser}
}

// Handler returns the site handler, for httptest servers.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves in the background.
// It returns the base url of the site.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return s.url, nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", addr, err)
	}
	s.srv = &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	s.url = fmt.Sprintf("http://%s/", ln.Addr().String())
	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Info("demo server stopped: %v", err)
		}
	}()
	s.log.Info("Demo site listening on %s", s.url)
	return s.url, nil
}

// Stop gracefully shuts down a started server.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown demo server: %w", err)
	}
	return nil
}

type loginData struct {
	Username string
	Error    string
	Users    []string
	Password string
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, username, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := loginData{Username: username, Error: errMsg, Users: Users(), Password: Password}
	if err := s.tmpl.ExecuteTemplate(w, "login.html", data); err != nil {
		s.log.Info("render login page: %v", err)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	errMsg := ""
	if r.URL.Query().Get("denied") != "" {
		errMsg = ErrNotLoggedIn
	}
	s.renderLogin(w, http.StatusOK, "", errMsg)
}

// checkLogin returns the error banner for a login attempt, empty when it succeeds.
func checkLogin(username, password string) string {
	switch {
	case username == "":
		return ErrUsernameRequired
	case password == "":
		return ErrPasswordRequired
	case !slices.Contains(Users(), username) || password != Password:
		return ErrMismatch
	case username == LockedOutUser:
		return ErrLockedOut
	}
	return ""
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username, password := r.PostForm.Get("user-name"), r.PostForm.Get("password")
	if msg := checkLogin(username, password); msg != "" {
		s.log.Info("Demo login rejected for %q: %s", username, msg)
		s.renderLogin(w, http.StatusOK, username, msg)
		return
	}

	if username == PerformanceGlitchUser && s.glitchDelay > 0 {
		select {
		case <-time.After(s.glitchDelay):
		case <-r.Context().Done():
			return
		}
	}

	s.log.Info("Demo login accepted for %s", username)
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: username, Path: "/", HttpOnly: true,
		SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

type inventoryData struct {
	Username string
	Items    []item
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || !slices.Contains(Users(), c.Value) || c.Value == LockedOutUser {
		http.Redirect(w, r, "/?denied=inventory", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "inventory.html", inventoryData{Username: c.Value, Items: inventory}); err != nil {
		s.log.Info("render inventory page: %v", err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
