package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/edutrack-api/internal/models"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/pkg/export"
)

type fakeStudentStore struct {
	students []models.Student
	nextID   int64
}

func (s *fakeStudentStore) List(ctx context.Context) ([]models.Student, error) {
	return s.students, nil
}

func (s *fakeStudentStore) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	for i := range s.students {
		if s.students[i].ID == id {
			return &s.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStudentStore) Create(ctx context.Context, student *models.Student) error {
	s.nextID++
	student.ID = s.nextID
	s.students = append(s.students, *student)
	return nil
}

func (s *fakeStudentStore) Update(ctx context.Context, student *models.Student) error {
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = *student
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *fakeStudentStore) Delete(ctx context.Context, id int64) error {
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newStudentRouter(t *testing.T, store *fakeStudentStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewStudentService(store, export.NewCSVExporter(), validator.New(), zap.NewNop())
	h := NewStudentHandler(svc)

	r := gin.New()
	students := r.Group("/api/v1/students")
	students.GET("", h.List)
	students.GET("/export", h.Export)
	students.POST("", h.Create)
	students.GET("/:id", h.Get)
	return r
}

func TestStudentExportAttachment(t *testing.T) {
	store := &fakeStudentStore{students: []models.Student{
		{ID: 1, Firstname: "Lina", Lastname: "Moreau", Birthdate: "2017-04-02", Level: "CP", Parent1Name: "Eva Moreau", Parent1Phone: "0600000001", Status: "Active"},
	}}
	r := newStudentRouter(t, store)

	w := performJSON(t, r, http.MethodGet, "/api/v1/students/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=students.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(w.Body.String()), "\r", ""), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Lina")
	assert.Contains(t, lines[1], "Moreau")
}

func TestStudentCreateRejectsMissingFields(t *testing.T) {
	r := newStudentRouter(t, &fakeStudentStore{})

	w := performJSON(t, r, http.MethodPost, "/api/v1/students", gin.H{"firstname": "Lina"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentGetMissing(t *testing.T) {
	r := newStudentRouter(t, &fakeStudentStore{})

	w := performJSON(t, r, http.MethodGet, "/api/v1/students/7", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
