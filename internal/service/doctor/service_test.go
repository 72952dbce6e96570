package doctor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

type fakeDoctorRepo struct {
	doctors   map[uuid.UUID]*model.Doctor
	listCalls int
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, fmt.Errorf("doctor: %w", repository.ErrNotFound)
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("doctor: %w", repository.ErrNotFound)
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := r.doctors[d.ID]; !ok {
		return fmt.Errorf("doctor: %w", repository.ErrNotFound)
	}
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.doctors[id]; !ok {
		return fmt.Errorf("doctor: %w", repository.ErrNotFound)
	}
	delete(r.doctors, id)
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context, _ *model.DoctorFilters, _ *model.Pagination) ([]*model.Doctor, int, error) {
	r.listCalls++
	out := []*model.Doctor{}
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, len(out), nil
}

type fakeDepartmentRepo struct {
	departments map[uuid.UUID]*model.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: make(map[uuid.UUID]*model.Department)}
}

func (r *fakeDepartmentRepo) Create(_ context.Context, d *model.Department) error {
	d.ID = uuid.New()
	r.departments[d.ID] = d
	return nil
}

func (r *fakeDepartmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, fmt.Errorf("department: %w", repository.ErrNotFound)
	}
	return d, nil
}

func (r *fakeDepartmentRepo) List(_ context.Context) ([]*model.Department, error) {
	return nil, nil
}

func (r *fakeDepartmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.departments, id)
	return nil
}

func seedDepartment(t *testing.T, deptRepo *fakeDepartmentRepo) *model.Department {
	t.Helper()
	dept := &model.Department{Name: "Cardiology"}
	require.NoError(t, deptRepo.Create(context.Background(), dept))
	return dept
}

func TestCreateRequiresDepartment(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo, newFakeDepartmentRepo())

	_, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		UserID:       uuid.New(),
		DepartmentID: uuid.New(),
		FullName:     "Dr. Nowhere",
		Price:        100000,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
	assert.Empty(t, repo.doctors)
}

func TestListCachesUnfilteredPages(t *testing.T) {
	repo := newFakeDoctorRepo()
	deptRepo := newFakeDepartmentRepo()
	dept := seedDepartment(t, deptRepo)
	svc := NewService(repo, deptRepo)

	_, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		UserID:       uuid.New(),
		DepartmentID: dept.ID,
		FullName:     "Dr. One",
		Type:         model.DoctorTypeExamination,
		Price:        100000,
	})
	require.NoError(t, err)

	page := &model.Pagination{Page: 1, PageSize: 20}

	_, _, err = svc.List(context.Background(), &model.DoctorFilters{}, page)
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), &model.DoctorFilters{}, page)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second unfiltered listing should hit the cache")

	// Searches bypass the cache.
	_, _, err = svc.List(context.Background(), &model.DoctorFilters{SearchTerm: "one"}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestWritesFlushListCache(t *testing.T) {
	repo := newFakeDoctorRepo()
	deptRepo := newFakeDepartmentRepo()
	dept := seedDepartment(t, deptRepo)
	svc := NewService(repo, deptRepo)

	doc, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		UserID:       uuid.New(),
		DepartmentID: dept.ID,
		FullName:     "Dr. One",
		Type:         model.DoctorTypeExamination,
		Price:        100000,
	})
	require.NoError(t, err)

	page := &model.Pagination{Page: 1, PageSize: 20}
	_, _, err = svc.List(context.Background(), nil, page)
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	newName := "Dr. Renamed"
	_, err = svc.Update(context.Background(), doc.ID, &model.UpdateDoctorRequest{FullName: &newName})
	require.NoError(t, err)

	doctors, _, err := svc.List(context.Background(), nil, page)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "update should flush the cache")
	require.Len(t, doctors, 1)
	assert.Equal(t, newName, doctors[0].FullName)
}

func TestUpdateRejectsNonPositivePrice(t *testing.T) {
	repo := newFakeDoctorRepo()
	deptRepo := newFakeDepartmentRepo()
	dept := seedDepartment(t, deptRepo)
	svc := NewService(repo, deptRepo)

	doc, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		UserID:       uuid.New(),
		DepartmentID: dept.ID,
		FullName:     "Dr. One",
		Type:         model.DoctorTypeService,
		Price:        100000,
	})
	require.NoError(t, err)

	bad := int64(0)
	_, err = svc.Update(context.Background(), doc.ID, &model.UpdateDoctorRequest{Price: &bad})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.AsAppError(err).Code)
}
