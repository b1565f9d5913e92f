// Package auth implements admin authentication: login against stored
// PBKDF2 hashes, admin account management gated by the master password, and
// the JWT middleware protecting the admin API.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
	"github.com/aminejameli/dropservices-manager/internal/auth/jwt"
	"github.com/aminejameli/dropservices-manager/internal/auth/pwhash"
	"github.com/aminejameli/dropservices-manager/internal/dependency"
)

// Config contains the configuration for the auth server.
type Config struct {
	JWTSecret                string `mapstructure:"jwt_secret"`
	MasterPassword           string `mapstructure:"master_password"`
	PasswordHasherSaltSize   int    `mapstructure:"password_hasher_salt_size"`
	PasswordHasherIterations int    `mapstructure:"password_hasher_iterations"`
	JWTTTL                   string `mapstructure:"jwt_ttl"`
}

type Server struct {
	adminRepository dependency.Admin
	pwhash          *pwhash.PasswordHasher
	jwtAuth         *jwtauth.JWTAuth
	jwtTTL          time.Duration
	masterHash      string
}

// New creates a new auth server.
func New(c *Config, ar dependency.Admin) (*Server, error) {
	ph, err := pwhash.New(c.PasswordHasherSaltSize, c.PasswordHasherIterations)
	if err != nil {
		return nil, err
	}
	hash, err := ph.HashPassword(c.MasterPassword)
	if err != nil {
		return nil, err
	}
	if err := ph.Validate(c.MasterPassword, hash); err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("parse jwt ttl: %w", err)
	}

	return &Server{
		adminRepository: ar,
		pwhash:          ph,
		jwtAuth:         jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		jwtTTL:          ttl,
		masterHash:      hash,
	}, nil
}

// Router mounts the public auth endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", s.login)
	r.Post("/users", s.create)
	r.Delete("/users", s.delete)
	r.Post("/password", s.changePassword)
	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (lr *loginRequest) Bind(r *http.Request) error {
	if lr.Username == "" || lr.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

type tokenResponse struct {
	AuthToken string `json:"authToken"`
}

func (tr *tokenResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// login issues an auth token for a valid username and password.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	data := &loginRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	username := strings.ToLower(data.Username)

	pwHash, err := s.adminRepository.PasswordHashByUsername(r.Context(), username)
	if err != nil {
		render.Render(w, r, resp.ErrUnauthorized(fmt.Errorf("not authenticated")))
		return
	}
	if err := s.pwhash.Validate(data.Password, pwHash); err != nil {
		render.Render(w, r, resp.ErrUnauthorized(fmt.Errorf("not authenticated")))
		return
	}

	token, err := jwt.NewTokenWithSubject(s.jwtAuth, s.jwtTTL, username)
	if err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	render.Render(w, r, &tokenResponse{AuthToken: token})
}

type createUserRequest struct {
	MasterPassword string `json:"masterPassword"`
	Username       string `json:"username"`
	Password       string `json:"password"`
}

func (cr *createUserRequest) Bind(r *http.Request) error {
	if cr.Username == "" || cr.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	return nil
}

// create adds a new admin account, requires the master password.
func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	data := &createUserRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	if err := s.pwhash.Validate(data.MasterPassword, s.masterHash); err != nil {
		render.Render(w, r, resp.ErrUnauthorized(fmt.Errorf("not authenticated")))
		return
	}
	username := strings.ToLower(data.Username)

	pwHash, err := s.pwhash.HashPassword(data.Password)
	if err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	if err := s.adminRepository.AddAdmin(r.Context(), username, pwHash); err != nil {
		slog.Default().ErrorContext(r.Context(), "add admin failed",
			slog.String("username", username),
			slog.String("err", err.Error()))
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}

	token, err := jwt.NewTokenWithSubject(s.jwtAuth, s.jwtTTL, username)
	if err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	render.Render(w, r, &tokenResponse{AuthToken: token})
}

type deleteUserRequest struct {
	MasterPassword string `json:"masterPassword"`
	Username       string `json:"username"`
}

func (dr *deleteUserRequest) Bind(r *http.Request) error {
	if dr.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	data := &deleteUserRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	if err := s.pwhash.Validate(data.MasterPassword, s.masterHash); err != nil {
		render.Render(w, r, resp.ErrUnauthorized(fmt.Errorf("not authenticated")))
		return
	}
	if err := s.adminRepository.DeleteAdmin(r.Context(), strings.ToLower(data.Username)); err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	render.NoContent(w, r)
}

type changePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (cr *changePasswordRequest) Bind(r *http.Request) error {
	if cr.Username == "" || cr.NewPassword == "" {
		return fmt.Errorf("username and new password are required")
	}
	return nil
}

// changePassword accepts either the current password or the master password.
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	data := &changePasswordRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}
	username := strings.ToLower(data.Username)

	currentHash, err := s.adminRepository.PasswordHashByUsername(r.Context(), username)
	if err != nil {
		render.Render(w, r, resp.ErrUnauthorized(fmt.Errorf("not authenticated")))
		return
	}
	if err := s.pwhash.Validate(data.CurrentPassword, s.masterHash); err != nil {
		if err := s.pwhash.Validate(data.CurrentPassword, currentHash); err != nil {
			render.Render(w, r, resp.ErrUnauthorized(fmt.Errorf("not authenticated")))
			return
		}
	}

	newHash, err := s.pwhash.HashPassword(data.NewPassword)
	if err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	if err := s.adminRepository.ChangePassword(r.Context(), username, newHash); err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}

	token, err := jwt.NewTokenWithSubject(s.jwtAuth, s.jwtTTL, username)
	if err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	render.Render(w, r, &tokenResponse{AuthToken: token})
}

// WithAuth middleware checks if the request carries a valid token. The token
// is read from the Authorization header, or from the token query parameter
// for websocket upgrades where headers cannot be set by browsers.
func (s *Server) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if _, err := jwt.VerifyToken(s.jwtAuth, token); err != nil {
			http.Error(w, fmt.Sprintf("invalid token %v", err.Error()), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
