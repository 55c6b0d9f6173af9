package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/errs"
	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/deppfellow/superhero-catalog/internal/repository"
	"github.com/deppfellow/superhero-catalog/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validID = "64b8f0c8e4d3b2a1f0a12345"

type mockSuperheroRepository struct {
	mock.Mock
}

func (m *mockSuperheroRepository) Create(ctx context.Context, hero *model.Superhero) (*model.Superhero, error) {
	args := m.Called(ctx, hero)
	if v := args.Get(0); v != nil {
		return v.(*model.Superhero), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSuperheroRepository) List(ctx context.Context, offset int64, limit int) ([]model.SuperheroSummary, error) {
	args := m.Called(ctx, offset, limit)
	if v := args.Get(0); v != nil {
		return v.([]model.SuperheroSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSuperheroRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSuperheroRepository) GetByID(ctx context.Context, id string) (*model.Superhero, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Superhero), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSuperheroRepository) Update(ctx context.Context, id string, patch *model.SuperheroPatch) (*model.Superhero, error) {
	args := m.Called(ctx, id, patch)
	if v := args.Get(0); v != nil {
		return v.(*model.Superhero), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSuperheroRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo repository.SuperheroRepository) *SuperheroService {
	logger := zerolog.Nop()
	return NewSuperheroService(&server.Server{Logger: &logger}, repo)
}

func requireHTTPStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Status)
	if message != "" {
		assert.Equal(t, message, httpErr.Message)
	}
}

func TestCreateCleansLists(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	input := &model.Superhero{
		Nickname:    "Superman",
		RealName:    "Clark Kent",
		Superpowers: []string{" flight ", "", "flight", "heat vision"},
	}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(h *model.Superhero) bool {
		return assert.ObjectsAreEqual([]string{"flight", "heat vision"}, h.Superpowers) &&
			h.Images != nil && len(h.Images) == 0
	})).Return(&model.Superhero{ID: validID, Nickname: "Superman"}, nil)

	created, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, validID, created.ID)
	repo.AssertExpectations(t)
}

func TestListComputesOffset(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	items := []model.SuperheroSummary{{ID: validID, Nickname: "Superman"}}
	repo.On("List", mock.Anything, int64(10), 5).Return(items, nil)
	repo.On("Count", mock.Anything).Return(int64(11), nil)

	page, err := svc.List(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, items, page.Data)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 5, page.Limit)
	repo.AssertExpectations(t)
}

func TestListEmptyPageHasEmptyData(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	repo.On("List", mock.Anything, int64(0), 5).Return(nil, nil)
	repo.On("Count", mock.Anything).Return(int64(0), nil)

	page, err := svc.List(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestListRejectsBadPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		fields      []string
	}{
		{"zero page", 0, 5, []string{"page"}},
		{"zero limit", 1, 0, []string{"limit"}},
		{"limit too large", 1, 101, []string{"limit"}},
		{"both", -1, -1, []string{"page", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockSuperheroRepository)
			svc := newTestService(repo)

			_, err := svc.List(context.Background(), tt.page, tt.limit)
			requireHTTPStatus(t, err, http.StatusBadRequest, "")

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			var got []string
			for _, f := range httpErr.Errors {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
			repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListPropagatesRepositoryError(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	boom := errors.New("boom")
	repo.On("List", mock.Anything, int64(0), 5).Return(nil, boom)

	_, err := svc.List(context.Background(), 1, 5)
	assert.ErrorIs(t, err, boom)
}

func TestGet(t *testing.T) {
	hero := &model.Superhero{ID: validID, Nickname: "Superman", CreatedAt: time.Now()}

	t.Run("found", func(t *testing.T) {
		repo := new(mockSuperheroRepository)
		repo.On("GetByID", mock.Anything, validID).Return(hero, nil)

		got, err := newTestService(repo).Get(context.Background(), validID)
		require.NoError(t, err)
		assert.Equal(t, hero, got)
	})

	t.Run("invalid id", func(t *testing.T) {
		repo := new(mockSuperheroRepository)

		_, err := newTestService(repo).Get(context.Background(), "not-an-id")
		requireHTTPStatus(t, err, http.StatusBadRequest, "Invalid ID format")
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(mockSuperheroRepository)
		repo.On("GetByID", mock.Anything, validID).Return(nil, repository.ErrSuperheroNotFound)

		_, err := newTestService(repo).Get(context.Background(), validID)
		requireHTTPStatus(t, err, http.StatusNotFound, "Superhero not found")
	})
}

func TestUpdateCleansListsAndReturnsStored(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	powers := []string{"  strength", "strength", ""}
	patch := &model.SuperheroPatch{Superpowers: &powers}
	updated := &model.Superhero{ID: validID, Superpowers: []string{"strength"}}

	repo.On("Update", mock.Anything, validID, mock.MatchedBy(func(p *model.SuperheroPatch) bool {
		return p.Superpowers != nil && assert.ObjectsAreEqual([]string{"strength"}, *p.Superpowers) && p.Images == nil
	})).Return(updated, nil)

	got, err := svc.Update(context.Background(), validID, patch)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	repo.AssertExpectations(t)
}

func TestUpdateErrors(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), "123", &model.SuperheroPatch{})
	requireHTTPStatus(t, err, http.StatusBadRequest, "Invalid ID format")

	repo.On("Update", mock.Anything, validID, mock.Anything).Return(nil, repository.ErrSuperheroNotFound)
	_, err = svc.Update(context.Background(), validID, &model.SuperheroPatch{})
	requireHTTPStatus(t, err, http.StatusNotFound, "Superhero not found")
}

func TestDelete(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)

	repo.On("Delete", mock.Anything, validID).Return(nil).Once()
	require.NoError(t, svc.Delete(context.Background(), validID))

	repo.On("Delete", mock.Anything, validID).Return(repository.ErrSuperheroNotFound).Once()
	requireHTTPStatus(t, svc.Delete(context.Background(), validID), http.StatusNotFound, "Superhero not found")

	requireHTTPStatus(t, svc.Delete(context.Background(), "zzz"), http.StatusBadRequest, "Invalid ID format")
	repo.AssertExpectations(t)
}

func TestUppercaseIDReachesStoreLowercased(t *testing.T) {
	repo := new(mockSuperheroRepository)
	svc := newTestService(repo)
	upper := strings.ToUpper(validID)
	hero := &model.Superhero{ID: validID}

	repo.On("GetByID", mock.Anything, validID).Return(hero, nil).Once()
	repo.On("Update", mock.Anything, validID, mock.Anything).Return(hero, nil).Once()
	repo.On("Delete", mock.Anything, validID).Return(nil).Once()

	_, err := svc.Get(context.Background(), upper)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), upper, &model.SuperheroPatch{})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), upper))

	repo.AssertExpectations(t)
}

func TestCleanList(t *testing.T) {
	assert.Equal(t, []string{}, cleanList(nil))
	assert.Equal(t, []string{"a", "b"}, cleanList([]string{" a", "b ", "a", "  "}))
}
