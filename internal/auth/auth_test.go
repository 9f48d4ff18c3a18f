package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/repo"
)

type fakeRepo struct {
	profile        repo.Profile
	profileErr     error
	createdID      int
	storedHash     string
	clearedPremium bool
}

func (f *fakeRepo) CreateOperator(ctx context.Context, login, email, organisation, password string) (int, error) {
	f.storedHash = password
	return f.createdID, nil
}

func (f *fakeRepo) GetByLogin(ctx context.Context, login string) (int, string, error) {
	return f.createdID, f.storedHash, nil
}

func (f *fakeRepo) GetProfileByID(ctx context.Context, id int) (repo.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, id int, login, organisation, description string) (int64, error) {
	return 1, nil
}

func (f *fakeRepo) SetPremium(ctx context.Context, id int, until time.Time) error { return nil }

func (f *fakeRepo) ClearPremium(ctx context.Context, id int) error {
	f.clearedPremium = true
	return nil
}

func (f *fakeRepo) SaveRun(ctx context.Context, run repo.Run) error { return nil }

func (f *fakeRepo) ListRuns(ctx context.Context, operatorID, limit int) ([]repo.RunSummary, error) {
	return nil, nil
}

func (f *fakeRepo) GetRun(ctx context.Context, operatorID int, id uuid.UUID) (repo.Run, error) {
	return repo.Run{}, nil
}

func testEnv(r repo.Repository) *Authenv {
	return &Authenv{JWTkey: []byte("test-key"), Repo: r, Log: zerolog.Nop()}
}

// sessionFor registers an operator and returns the issued session cookie.
func sessionFor(t *testing.T, env *Authenv) *http.Cookie {
	t.Helper()
	body := `{"login": "lab-cardiff", "email": "lab@example.com", "password": "secret123", "organisation": "HydroStar"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	env.RegisterHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not issued")
	return nil
}

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}

func TestRegisterValidation(t *testing.T) {
	env := testEnv(&fakeRepo{createdID: 7})
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad payload", `{`, http.StatusBadRequest},
		{"missing email", `{"login": "a", "password": "secret123"}`, http.StatusBadRequest},
		{"short password", `{"login": "a", "email": "a@b.c", "password": "12345"}`, http.StatusBadRequest},
		{"ok", `{"login": "a", "email": "a@b.c", "password": "123456"}`, http.StatusCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			env.RegisterHandler(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestLoginFlow(t *testing.T) {
	fr := &fakeRepo{createdID: 7}
	env := testEnv(fr)
	sessionFor(t, env) // registers and stores the bcrypt hash in the fake

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"login": "lab-cardiff", "password": "secret123"}`))
	rec := httptest.NewRecorder()
	env.AuthHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"login": "lab-cardiff", "password": "nope"}`))
	rec = httptest.NewRecorder()
	env.AuthHandler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := testEnv(&fakeRepo{createdID: 7})
	cookie := sessionFor(t, env)

	var gotID int
	var gotLogin string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = OperatorID(r.Context())
		gotLogin, _ = Login(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotID)
	assert.Equal(t, "lab-cardiff", gotLogin)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	env := testEnv(&fakeRepo{createdID: 7})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a session")
	})

	// No cookie at all.
	rec := httptest.NewRecorder()
	env.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different key.
	other := testEnv(&fakeRepo{createdID: 7})
	other.JWTkey = []byte("other-key")
	cookie := sessionFor(t, other)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.AuthMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPageAuthMiddlewareRedirects(t *testing.T) {
	env := testEnv(&fakeRepo{createdID: 7})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	env.PageAuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/", rec.Header().Get("Location"))
}

func TestPremiumMiddleware(t *testing.T) {
	until := time.Now().Add(24 * time.Hour)
	fr := &fakeRepo{createdID: 7, profile: repo.Profile{ID: 7, IsPremium: true, PremiumUntil: &until}}
	env := testEnv(fr)
	cookie := sessionFor(t, env)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })
	chain := env.AuthMiddleware(env.PremiumMiddleware(next))

	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/batch/run", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestPremiumMiddlewareExpired(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	fr := &fakeRepo{createdID: 7, profile: repo.Profile{ID: 7, IsPremium: true, PremiumUntil: &expired}}
	env := testEnv(fr)
	cookie := sessionFor(t, env)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with expired premium")
	})
	chain := env.AuthMiddleware(env.PremiumMiddleware(next))

	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/batch/run", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	// Lapsed subscription: rejected and cleared in the same pass.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, fr.clearedPremium)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	handler := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different address gets its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
