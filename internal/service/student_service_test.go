package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/edutrack-api/internal/models"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
	"github.com/edutrack/edutrack-api/pkg/export"
)

type mockStudentRepo struct {
	byID   map[int64]*models.Student
	nextID int64
}

func newMockStudentRepo(students ...*models.Student) *mockStudentRepo {
	repo := &mockStudentRepo{byID: make(map[int64]*models.Student), nextID: 1}
	for _, s := range students {
		repo.byID[s.ID] = s
		if s.ID >= repo.nextID {
			repo.nextID = s.ID + 1
		}
	}
	return repo
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = m.nextID
	m.nextID++
	m.byID[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.byID[student.ID]; !ok {
		return sql.ErrNoRows
	}
	m.byID[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func newStudentService(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, export.NewCSVExporter(), validator.New(), zap.NewNop())
}

func validStudentRequest() models.StudentRequest {
	return models.StudentRequest{
		Firstname:    "Lina",
		Lastname:     "Martin",
		Birthdate:    "2017-03-12",
		Level:        "CE1",
		Parent1Name:  "Sophie Martin",
		Parent1Phone: "+33600000001",
	}
}

func TestStudentCreateDefaultsStatus(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, DefaultStudentStatus, student.Status)
	assert.NotZero(t, student.ID)
}

func TestStudentCreateMissingParentPhone(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	req := validStudentRequest()
	req.Parent1Phone = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestStudentUpdateMissingNotFound(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	_, err := svc.Update(context.Background(), 9, validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestStudentUpdateKeepsStatusWhenOmitted(t *testing.T) {
	existing := &models.Student{ID: 1, Firstname: "Lina", Lastname: "Martin", Birthdate: "2017-03-12",
		Level: "CE1", Parent1Name: "Sophie Martin", Parent1Phone: "+33600000001", Status: "Inactive"}
	svc := newStudentService(newMockStudentRepo(existing))

	updated, err := svc.Update(context.Background(), 1, validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, "Inactive", updated.Status)
}

func TestStudentDeleteTwiceNotFound(t *testing.T) {
	svc := newStudentService(newMockStudentRepo(&models.Student{ID: 1}))

	require.NoError(t, svc.Delete(context.Background(), 1))

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestStudentExportCSVHeaders(t *testing.T) {
	parent2 := "Paul Martin"
	repo := newMockStudentRepo(&models.Student{
		ID: 1, Firstname: "Lina", Lastname: "Martin", Birthdate: "2017-03-12",
		Level: "CE1", Parent1Name: "Sophie Martin", Parent1Phone: "+33600000001",
		Parent2Name: &parent2, Status: "Active",
	})
	svc := newStudentService(repo)

	payload, filename, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "students.csv", filename)

	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(string(payload)), "\r", ""), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Firstname,Lastname,Birthdate,Level,Parent 1 Name,Parent 1 Phone,Parent 2 Name,Parent 2 Phone,Status", lines[0])
	assert.Contains(t, lines[1], "Lina")
	assert.Contains(t, lines[1], "Paul Martin")
}
