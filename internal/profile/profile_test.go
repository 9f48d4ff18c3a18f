package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/auth"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/repo"
)

type fakeRepo struct {
	profile        repo.Profile
	profileErr     error
	clearedPremium bool
	updatedLogin   string
}

func (f *fakeRepo) CreateOperator(ctx context.Context, login, email, organisation, password string) (int, error) {
	return 0, nil
}
func (f *fakeRepo) GetByLogin(ctx context.Context, login string) (int, string, error) {
	return 0, "", nil
}
func (f *fakeRepo) GetProfileByID(ctx context.Context, id int) (repo.Profile, error) {
	return f.profile, f.profileErr
}
func (f *fakeRepo) UpdateProfile(ctx context.Context, id int, login, organisation, description string) (int64, error) {
	f.updatedLogin = login
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

func authed(req *http.Request) *http.Request {
	return req.WithContext(auth.WithOperator(req.Context(), 7, "lab-cardiff"))
}

func TestGetProfile(t *testing.T) {
	fr := &fakeRepo{profile: repo.Profile{ID: 7, Login: "lab-cardiff", Organisation: "HydroStar"}}
	h := &ProfileHandler{Repo: fr}

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authed(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	var prof repo.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&prof))
	assert.Equal(t, "lab-cardiff", prof.Login)
	assert.Equal(t, "HydroStar", prof.Organisation)
}

func TestGetProfileClearsLapsedPremium(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	fr := &fakeRepo{profile: repo.Profile{ID: 7, IsPremium: true, PremiumUntil: &expired}}
	h := &ProfileHandler{Repo: fr}

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authed(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	var prof repo.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&prof))
	assert.False(t, prof.IsPremium)
	assert.Nil(t, prof.PremiumUntil)
	assert.True(t, fr.clearedPremium)
}

func TestGetProfileByID(t *testing.T) {
	fr := &fakeRepo{profile: repo.Profile{ID: 9, Login: "other"}}
	h := &ProfileHandler{Repo: fr}

	req := mux.SetURLVars(authed(httptest.NewRequest(http.MethodGet, "/api/user/profile/9", nil)),
		map[string]string{"id": "9"})
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var prof repo.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&prof))
	assert.Equal(t, "other", prof.Login)
}

func TestGetProfileUnauthorized(t *testing.T) {
	h := &ProfileHandler{Repo: &fakeRepo{}}
	rec := httptest.NewRecorder()
	h.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	fr := &fakeRepo{}
	h := &ProfileHandler{Repo: fr}

	body := `{"login": "lab-swansea", "organisation": "HydroStar", "description": "site 2"}`
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/api/user/profile", bytes.NewBufferString(body))))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "lab-swansea", fr.updatedLogin)
}

func TestUpdateProfileRejects(t *testing.T) {
	h := &ProfileHandler{Repo: &fakeRepo{}}

	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/api/user/profile", bytes.NewBufferString(`{`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, authed(httptest.NewRequest(http.MethodPut, "/api/user/profile", bytes.NewBufferString(`{"login": "  "}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
