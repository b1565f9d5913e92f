package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
)

const (
	jwtSecret      = "hehe"
	masterPassword = "FJKqDyBvr9pAQMB3f8Uj4s"

	username = "testusername"
	password = "testPassword"
)

type fakeAdmins struct {
	hashes map[string]string
}

func (f *fakeAdmins) AddAdmin(ctx context.Context, username, passwordHash string) error {
	f.hashes[username] = passwordHash
	return nil
}

func (f *fakeAdmins) DeleteAdmin(ctx context.Context, username string) error {
	if _, ok := f.hashes[username]; !ok {
		return gerr.ErrNotFound
	}
	delete(f.hashes, username)
	return nil
}

func (f *fakeAdmins) ChangePassword(ctx context.Context, username, newHash string) error {
	if _, ok := f.hashes[username]; !ok {
		return gerr.ErrNotFound
	}
	f.hashes[username] = newHash
	return nil
}

func (f *fakeAdmins) PasswordHashByUsername(ctx context.Context, username string) (string, error) {
	hash, ok := f.hashes[username]
	if !ok {
		return "", gerr.ErrNotFound
	}
	return hash, nil
}

func newTestServer(t *testing.T) (*Server, *fakeAdmins) {
	as := &fakeAdmins{hashes: map[string]string{}}
	s, err := New(&Config{
		JWTSecret:                jwtSecret,
		MasterPassword:           masterPassword,
		PasswordHasherSaltSize:   16,
		PasswordHasherIterations: 10000,
		JWTTTL:                   "60m",
	}, as)
	require.NoError(t, err)
	return s, as
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateLoginChangePassword(t *testing.T) {
	s, as := newTestServer(t)
	router := s.Router()

	rec := postJSON(t, router, "/users", map[string]string{
		"masterPassword": masterPassword,
		"username":       username,
		"password":       password,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, as.hashes, username)

	rec = postJSON(t, router, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		AuthToken string `json:"authToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.AuthToken)

	rec = postJSON(t, router, "/login", map[string]string{
		"username": username,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, router, "/password", map[string]string{
		"username":        username,
		"currentPassword": password,
		"newPassword":     "rotated",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/login", map[string]string{
		"username": username,
		"password": "rotated",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRequiresMasterPassword(t *testing.T) {
	s, as := newTestServer(t)

	rec := postJSON(t, s.Router(), "/users", map[string]string{
		"masterPassword": "nope",
		"username":       username,
		"password":       password,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, as.hashes)
}

func TestChangePasswordAcceptsMasterPassword(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()

	rec := postJSON(t, router, "/users", map[string]string{
		"masterPassword": masterPassword,
		"username":       username,
		"password":       password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/password", map[string]string{
		"username":        username,
		"currentPassword": masterPassword,
		"newPassword":     "rotated",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithAuth(t *testing.T) {
	s, as := newTestServer(t)
	router := s.Router()

	rec := postJSON(t, router, "/users", map[string]string{
		"masterPassword": masterPassword,
		"username":       username,
		"password":       password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, as.hashes)

	rec = postJSON(t, router, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		AuthToken string `json:"authToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	protected := s.WithAuth(next)

	req := httptest.NewRequest("GET", "http://testing", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", login.AuthToken))
	out := httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)

	req = httptest.NewRequest("GET", "http://testing?token="+login.AuthToken, nil)
	out = httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)

	req = httptest.NewRequest("GET", "http://testing", nil)
	req.Header.Set("Authorization", "bad token")
	out = httptest.NewRecorder()
	protected.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}
