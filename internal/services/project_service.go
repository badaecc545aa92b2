package services

import (
	"context"
	"strings"

	"github.com/chiedozieu/website-builder/internal/models"
	"github.com/chiedozieu/website-builder/internal/repository"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/chiedozieu/website-builder/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectService covers project lifecycle around the revision pipeline:
// creation, listing, preview, gallery, manual save, publish and delete.
type ProjectService interface {
	CreateProject(ctx context.Context, userID uuid.UUID, initialPrompt string) (*models.WebsiteProject, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]models.WebsiteProject, error)
	DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error
	Preview(ctx context.Context, userID, projectID uuid.UUID) (*ProjectPreview, error)
	PublishedProjects(ctx context.Context) ([]models.WebsiteProject, error)
	PublicCode(ctx context.Context, projectID uuid.UUID) (string, error)
	SaveCode(ctx context.Context, userID, projectID uuid.UUID, code string) error
	TogglePublish(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

// ProjectPreview is the owner-facing view: the project, its full version
// history and the interleaved timeline.
type ProjectPreview struct {
	Project  models.WebsiteProject `json:"project"`
	Versions []models.Version      `json:"versions"`
	Timeline []TimelineEntry       `json:"timeline"`
}

type projectService struct {
	users         repository.UserRepository
	projects      repository.ProjectRepository
	versions      repository.VersionRepository
	conversations repository.ConversationRepository
	locks         *ProjectLocks
}

func NewProjectService(
	users repository.UserRepository,
	projects repository.ProjectRepository,
	versions repository.VersionRepository,
	conversations repository.ConversationRepository,
	locks *ProjectLocks,
) ProjectService {
	return &projectService{
		users:         users,
		projects:      projects,
		versions:      versions,
		conversations: conversations,
		locks:         locks,
	}
}

var _ ProjectService = (*projectService)(nil)

// CreateProject requires the minimum revision balance up front so a fresh
// project is never created by a user who cannot generate into it. Creation
// itself does not charge.
func (s *projectService) CreateProject(ctx context.Context, userID uuid.UUID, initialPrompt string) (*models.WebsiteProject, error) {
	var user models.User
	if err := s.users.GetByID(ctx, userID, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeUnauthorized, "unauthorized")
		}
		return nil, err
	}

	initialPrompt = strings.TrimSpace(initialPrompt)
	if initialPrompt == "" {
		return nil, appErr.New(appErr.CodeInvalid, "please enter a valid prompt")
	}
	if user.Credits < RevisionCost {
		return nil, appErr.New(appErr.CodeInsufficientCredits, "insufficient credits")
	}

	project := models.WebsiteProject{
		UserID:        userID,
		Name:          deriveProjectName(initialPrompt),
		InitialPrompt: initialPrompt,
	}
	if err := s.projects.Create(ctx, &project); err != nil {
		return nil, err
	}

	if err := s.users.IncrementTotalCreation(ctx, userID); err != nil {
		logger.L().Warn("increment total creation failed",
			zap.String("user_id", userID.String()), zap.Error(err))
	}

	logger.L().Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return &project, nil
}

func (s *projectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.WebsiteProject, error) {
	return s.projects.ListByUser(ctx, userID)
}

// DeleteProject removes a project; versions and conversations go with it via
// the cascading foreign keys.
func (s *projectService) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	var project models.WebsiteProject
	if err := s.projects.GetOwned(ctx, projectID, userID, &project); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	logger.L().Info("project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func (s *projectService) Preview(ctx context.Context, userID, projectID uuid.UUID) (*ProjectPreview, error) {
	var project models.WebsiteProject
	if err := s.projects.GetOwned(ctx, projectID, userID, &project); err != nil {
		return nil, err
	}

	versions, err := s.versions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	turns, err := s.conversations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectPreview{
		Project:  project,
		Versions: versions,
		Timeline: BuildTimeline(turns, versions),
	}, nil
}

func (s *projectService) PublishedProjects(ctx context.Context) ([]models.WebsiteProject, error) {
	return s.projects.ListPublished(ctx)
}

// PublicCode returns only the rendered HTML of a published project.
// Unpublished projects and projects without code read as not found.
func (s *projectService) PublicCode(ctx context.Context, projectID uuid.UUID) (string, error) {
	var project models.WebsiteProject
	if err := s.projects.GetByID(ctx, projectID, &project); err != nil {
		return "", err
	}
	if !project.IsPublished || project.CurrentCode == "" {
		return "", appErr.New(appErr.CodeNotFound, "project not found")
	}
	return project.CurrentCode, nil
}

// SaveCode overwrites current_code directly and clears the version pointer.
// It is the manual escape hatch around the generation pipeline, so no
// Version is recorded.
func (s *projectService) SaveCode(ctx context.Context, userID, projectID uuid.UUID, code string) error {
	if code == "" {
		return appErr.New(appErr.CodeInvalid, "code is required")
	}

	unlock := s.locks.Acquire(projectID)
	defer unlock()

	var project models.WebsiteProject
	if err := s.projects.GetOwned(ctx, projectID, userID, &project); err != nil {
		return err
	}
	return s.projects.SetCurrent(ctx, projectID, nil, code)
}

func (s *projectService) TogglePublish(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var project models.WebsiteProject
	if err := s.projects.GetOwned(ctx, projectID, userID, &project); err != nil {
		return false, err
	}
	next := !project.IsPublished
	if err := s.projects.SetPublished(ctx, projectID, next); err != nil {
		return false, err
	}
	logger.L().Info("publish toggled",
		zap.String("project_id", projectID.String()),
		zap.Bool("published", next),
	)
	return next, nil
}

// deriveProjectName uses the initial prompt, truncated for display.
func deriveProjectName(prompt string) string {
	if len(prompt) > 50 {
		return prompt[:47] + "..."
	}
	return prompt
}
