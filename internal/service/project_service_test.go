package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "projecthub/internal/errors"
	"projecthub/internal/model"
	"projecthub/internal/storage"
)

// MockProjectRepository is a mock implementation of ProjectRepository.
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) Search(ctx context.Context, term string) ([]model.Project, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func newProjectService(projects *MockProjectRepository, users *MockUserRepository, store storage.Store) *projectService {
	svc := NewProjectService(projects, users, store, zap.NewNop()).(*projectService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestProjectService_Create(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	projects := new(MockProjectRepository)
	var saved *model.Project
	projects.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Project) }).
		Return(&model.Project{ID: 11, UserID: 3, Topic: "Demo"}, nil)

	svc := newProjectService(projects, new(MockUserRepository), storage.NewLocalStore(dir))

	created, err := svc.Create(context.Background(), 3, &model.Project{Topic: "  Demo "}, []Upload{
		{Filename: "a.pdf", Body: strings.NewReader("A")},
		{Filename: "../b.png", Body: strings.NewReader("B")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)

	require.NotNil(t, saved)
	assert.Equal(t, int64(3), saved.UserID)
	assert.Equal(t, "Demo", saved.Topic)
	assert.Equal(t, model.StringList{"1700000000000-a.pdf", "1700000000000-b.png"}, saved.Attachments)
	assert.Equal(t, model.UnknownClientValue, *saved.IPAddress)
	assert.Equal(t, model.UnknownClientValue, *saved.BrowserInfo)
	assert.JSONEq(t, `{"country":"Unknown","region":"Unknown","city":"Unknown","timezone":"Unknown"}`, string(saved.GeoInfo))

	data, err := os.ReadFile(filepath.Join(dir, "1700000000000-b.png"))
	require.NoError(t, err)
	assert.Equal(t, "B", string(data))
	projects.AssertExpectations(t)
}

func TestProjectService_CreateSameNamedUploads(t *testing.T) {
	dir := t.TempDir()
	projects := new(MockProjectRepository)
	var saved *model.Project
	projects.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Project) }).
		Return(&model.Project{ID: 12, UserID: 3, Topic: "Demo"}, nil)

	svc := newProjectService(projects, new(MockUserRepository), storage.NewLocalStore(dir))

	_, err := svc.Create(context.Background(), 3, &model.Project{Topic: "Demo"}, []Upload{
		{Filename: "photos/image.png", Body: strings.NewReader("FIRST")},
		{Filename: "scans/image.png", Body: strings.NewReader("SECOND")},
	})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, model.StringList{"1700000000000-image.png", "1700000000000-image-1.png"}, saved.Attachments)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	first, err := os.ReadFile(filepath.Join(dir, "1700000000000-image.png"))
	require.NoError(t, err)
	assert.Equal(t, "FIRST", string(first))
	second, err := os.ReadFile(filepath.Join(dir, "1700000000000-image-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "SECOND", string(second))
}

func TestProjectService_CreateWithoutUploads(t *testing.T) {
	projects := new(MockProjectRepository)
	ip := "10.1.1.1"
	projects.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
		return p.Attachments == nil && *p.IPAddress == ip
	})).Return(&model.Project{ID: 1, UserID: 3, Topic: "Demo"}, nil)

	svc := newProjectService(projects, new(MockUserRepository), storage.NewLocalStore(t.TempDir()))

	created, err := svc.Create(context.Background(), 3, &model.Project{Topic: "Demo", IPAddress: &ip}, nil)
	require.NoError(t, err)
	assert.Nil(t, created.Attachments)
	projects.AssertExpectations(t)
}

func TestProjectService_CreateValidation(t *testing.T) {
	projects := new(MockProjectRepository)
	svc := newProjectService(projects, new(MockUserRepository), storage.NewLocalStore(t.TempDir()))

	_, err := svc.Create(context.Background(), 3, &model.Project{Topic: "   "}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_CreateStoreError(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("create project: boom"))

	svc := newProjectService(projects, new(MockUserRepository), storage.NewLocalStore(t.TempDir()))

	_, err := svc.Create(context.Background(), 3, &model.Project{Topic: "Demo"}, nil)
	assert.EqualError(t, err, "create project: boom")
}

func TestProjectService_Listings(t *testing.T) {
	projects := new(MockProjectRepository)
	users := new(MockUserRepository)

	projects.On("Search", mock.Anything, "").Return(nil, nil)
	projects.On("Search", mock.Anything, "demo").Return([]model.Project{{ID: 2}, {ID: 1}}, nil)
	projects.On("ListByOwner", mock.Anything, int64(3)).Return([]model.Project{{ID: 4}}, nil)
	projects.On("ListForUser", mock.Anything, int64(3)).Return([]model.Project{{ID: 4, UserRole: model.RoleOwner}}, nil)
	users.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Username: "carol"}, nil)
	users.On("FindByID", mock.Anything, int64(9)).Return(nil, apperrors.ErrUserNotFound)

	svc := newProjectService(projects, users, storage.NewLocalStore(t.TempDir()))
	ctx := context.Background()

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	found, err := svc.Search(ctx, "demo")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	mine, err := svc.ListByOwner(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	user, list, err := svc.UserProfile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.Equal(t, model.RoleOwner, list[0].UserRole)

	_, _, err = svc.UserProfile(ctx, 9)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	projects.AssertNotCalled(t, "ListForUser", mock.Anything, int64(9))
}
