package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/service"
)

type fakeFormationStore struct {
	formations []models.Formation
	listedWith []string
	nextID     int64
}

func (s *fakeFormationStore) List(ctx context.Context, status string) ([]models.Formation, error) {
	s.listedWith = append(s.listedWith, status)
	if status == "" {
		return s.formations, nil
	}
	var out []models.Formation
	for _, f := range s.formations {
		if f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeFormationStore) FindByID(ctx context.Context, id int64) (*models.Formation, error) {
	for i := range s.formations {
		if s.formations[i].ID == id {
			return &s.formations[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeFormationStore) Create(ctx context.Context, formation *models.Formation) error {
	s.nextID++
	formation.ID = s.nextID
	s.formations = append(s.formations, *formation)
	return nil
}

func (s *fakeFormationStore) Update(ctx context.Context, formation *models.Formation) error {
	for i := range s.formations {
		if s.formations[i].ID == formation.ID {
			s.formations[i] = *formation
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *fakeFormationStore) Delete(ctx context.Context, id int64) error {
	for i := range s.formations {
		if s.formations[i].ID == id {
			s.formations = append(s.formations[:i], s.formations[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newFormationRouter(t *testing.T, store *fakeFormationStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewFormationService(store, nil, 0, validator.New(), zap.NewNop())
	h := NewFormationHandler(svc)

	r := gin.New()
	formations := r.Group("/api/v1/formations")
	formations.GET("", h.List)
	formations.POST("", h.Create)
	formations.GET("/:id", h.Get)
	return r
}

func TestFormationListAllDisablesFilter(t *testing.T) {
	store := &fakeFormationStore{formations: []models.Formation{
		{ID: 1, FormationName: "A", Status: "Active"},
		{ID: 2, FormationName: "B", Status: "Completed"},
	}}
	r := newFormationRouter(t, store)

	w := performJSON(t, r, http.MethodGet, "/api/v1/formations?status=All", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{""}, store.listedWith)
	assert.Contains(t, w.Body.String(), `"formation_name":"A"`)
	assert.Contains(t, w.Body.String(), `"formation_name":"B"`)
}

func TestFormationListStatusFilterForwarded(t *testing.T) {
	store := &fakeFormationStore{formations: []models.Formation{
		{ID: 1, FormationName: "A", Status: "Active"},
		{ID: 2, FormationName: "B", Status: "Completed"},
	}}
	r := newFormationRouter(t, store)

	w := performJSON(t, r, http.MethodGet, "/api/v1/formations?status=Active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"Active"}, store.listedWith)
	assert.NotContains(t, w.Body.String(), `"formation_name":"B"`)
}

func TestFormationListRejectsUnknownStatus(t *testing.T) {
	store := &fakeFormationStore{}
	r := newFormationRouter(t, store)

	w := performJSON(t, r, http.MethodGet, "/api/v1/formations?status=Paused", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Paused")
	assert.Empty(t, store.listedWith)
}

func TestFormationCreateRejectsUnknownLevel(t *testing.T) {
	r := newFormationRouter(t, &fakeFormationStore{})

	w := performJSON(t, r, http.MethodPost, "/api/v1/formations", gin.H{
		"formation_name": "Spring",
		"from_date":      "2025-09-01",
		"end_date":       "2026-06-30",
		"level":          "CE9",
		"status":         "Active",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CE9")
}

func TestFormationGetMissing(t *testing.T) {
	r := newFormationRouter(t, &fakeFormationStore{})

	w := performJSON(t, r, http.MethodGet, "/api/v1/formations/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
