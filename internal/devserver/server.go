package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 8 << 20

// Config configures a Server.
type Config struct {
	// SigningKey signs access tokens with HS256. At least 32 bytes.
	SigningKey []byte
	// AccessTTL is the access token lifetime. Defaults to 15 minutes.
	AccessTTL time.Duration
	Issuer    string
	Logger    zerolog.Logger
}

// Profile is the user record as the API returns it.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Tel    string `json:"tel"`
	Avatar string `json:"avatar"`
}

type account struct {
	profile      Profile
	passwordHash string
}

// Server holds registered users and issued refresh tokens.
type Server struct {
	mu       sync.RWMutex
	accounts map[string]*account
	refresh  map[string]string

	tokens *tokenIssuer
	params hashParams
	logger zerolog.Logger
	router *mux.Router
}

// New builds a Server and its routes.
func New(cfg Config) (*Server, error) {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	issuer, err := newTokenIssuer(cfg.SigningKey, cfg.AccessTTL, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	s := &Server{
		accounts: make(map[string]*account),
		refresh:  make(map[string]string),
		tokens:   issuer,
		params:   devHashParams,
		logger:   cfg.Logger,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/users", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/sessions", s.handleSignIn).Methods(http.MethodPost)
	r.HandleFunc("/sessions/refresh-token", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed registers a user directly, bypassing the HTTP layer.
func (s *Server) Seed(name, email, tel, password string) (Profile, error) {
	return s.register(name, email, tel, password, "")
}

// Users reports the number of registered accounts.
func (s *Server) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Lookup returns the profile registered under email.
func (s *Server) Lookup(email string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[normalizeEmail(email)]
	if !ok {
		return Profile{}, false
	}
	return acc.profile, true
}

var errDuplicateEmail = errors.New("email already registered")

func (s *Server) register(name, email, tel, password, avatar string) (Profile, error) {
	hash, err := hashPassword(s.params, password)
	if err != nil {
		return Profile{}, err
	}

	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[key]; exists {
		return Profile{}, errDuplicateEmail
	}
	p := Profile{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  strings.TrimSpace(email),
		Tel:    tel,
		Avatar: avatar,
	}
	s.accounts[key] = &account{profile: p, passwordHash: hash}
	return p, nil
}

/*
====================================
HANDLERS
====================================
*/

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	tel := strings.TrimSpace(r.FormValue("tel"))
	password := r.FormValue("password")
	if name == "" || email == "" || tel == "" || password == "" {
		writeMessage(w, http.StatusBadRequest, "name, email, tel and password are required")
		return
	}

	avatar := ""
	if file, header, err := r.FormFile("avatar"); err == nil {
		avatar = header.Filename
		_ = file.Close()
	}

	if _, err := s.register(name, email, tel, password, avatar); err != nil {
		if errors.Is(err, errDuplicateEmail) {
			writeMessage(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("register failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User         Profile `json:"user"`
	Token        string  `json:"token"`
	RefreshToken string  `json:"refresh_token"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.RLock()
	acc, ok := s.accounts[normalizeEmail(req.Email)]
	s.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	match, err := verifyPassword(req.Password, acc.passwordHash)
	if err != nil || !match {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.writeSession(w, acc.profile)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	s.mu.Lock()
	email, ok := s.refresh[req.RefreshToken]
	if ok {
		// Refresh tokens are single use.
		delete(s.refresh, req.RefreshToken)
	}
	acc := s.accounts[email]
	s.mu.Unlock()

	if !ok || acc == nil {
		writeMessage(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	s.writeSession(w, acc.profile)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	claims, err := s.tokens.parse(raw)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.profile.ID == claims.UID {
			writeJSON(w, http.StatusOK, acc.profile)
			return
		}
	}
	writeMessage(w, http.StatusUnauthorized, "unauthorized")
}

func (s *Server) writeSession(w http.ResponseWriter, p Profile) {
	token, err := s.tokens.issue(p.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("token issue failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	refresh := uuid.NewString()

	s.mu.Lock()
	s.refresh[refresh] = normalizeEmail(p.Email)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, sessionResponse{User: p, Token: token, RefreshToken: refresh})
}

/*
====================================
HELPERS
====================================
*/

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
