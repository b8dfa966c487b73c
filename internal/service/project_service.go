package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "projecthub/internal/errors"
	"projecthub/internal/model"
	"projecthub/internal/repository"
	"projecthub/internal/storage"
)

// Upload is one attached file of a project submission.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProjectService handles project listing and submission.
type ProjectService interface {
	Search(ctx context.Context, term string) ([]model.Project, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Project, error)
	Get(ctx context.Context, id int64) (*model.Project, error)
	UserProfile(ctx context.Context, userID int64) (*model.User, []model.Project, error)
	Create(ctx context.Context, ownerID int64, project *model.Project, uploads []Upload) (*model.Project, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	store       storage.Store
	log         *zap.Logger
	now         func() time.Time
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, store storage.Store, log *zap.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		store:       store,
		log:         log.Named("projects"),
		now:         time.Now,
	}
}

func (s *projectService) Search(ctx context.Context, term string) ([]model.Project, error) {
	projects, err := s.projectRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return nonNil(projects), nil
}

func (s *projectService) ListByOwner(ctx context.Context, userID int64) ([]model.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(projects), nil
}

func (s *projectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

// UserProfile returns a user and the projects they own or work on.
func (s *projectService) UserProfile(ctx context.Context, userID int64) (*model.User, []model.Project, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	projects, err := s.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, nonNil(projects), nil
}

// Create stores the uploads one after another, then writes the project with
// the stored file names as its attachments.
func (s *projectService) Create(ctx context.Context, ownerID int64, project *model.Project, uploads []Upload) (*model.Project, error) {
	project.Topic = strings.TrimSpace(project.Topic)
	if project.Topic == "" {
		return nil, fmt.Errorf("%w: topic is required", apperrors.ErrValidation)
	}
	project.UserID = ownerID
	applyClientDefaults(project)

	filenames := make([]string, len(uploads))
	for i, up := range uploads {
		filenames[i] = up.Filename
	}
	var names model.StringList
	for i, name := range storage.ObjectNames(s.now(), filenames) {
		up := uploads[i]
		if err := s.store.Save(ctx, name, up.Body, up.ContentType); err != nil {
			return nil, fmt.Errorf("store attachment %q: %w", up.Filename, err)
		}
		names = append(names, name)
	}
	project.Attachments = names

	created, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		if len(names) > 0 {
			s.log.Warn("project not saved, attachments left behind",
				zap.Strings("attachments", names), zap.Error(err))
		}
		return nil, err
	}
	return created, nil
}

func applyClientDefaults(p *model.Project) {
	if p.IPAddress == nil || *p.IPAddress == "" {
		v := model.UnknownClientValue
		p.IPAddress = &v
	}
	if p.BrowserInfo == nil || *p.BrowserInfo == "" {
		v := model.UnknownClientValue
		p.BrowserInfo = &v
	}
	if len(p.GeoInfo) == 0 {
		p.GeoInfo = model.DefaultGeoInfo
	}
}

func nonNil(projects []model.Project) []model.Project {
	if projects == nil {
		return []model.Project{}
	}
	return projects
}
