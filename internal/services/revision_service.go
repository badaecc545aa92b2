package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/chiedozieu/website-builder/internal/llm"
	"github.com/chiedozieu/website-builder/internal/models"
	"github.com/chiedozieu/website-builder/internal/repository"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/chiedozieu/website-builder/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RevisionCost is the credit price of one generation pass.
const RevisionCost = 5

// Assistant narration appended between pipeline stages. There is no separate
// status field; these rows are the user-visible progress signal.
const (
	noticeGenerating = "Now making changes to your website..."
	noticeDone       = "I've made the changes to your website. You can now preview it."
	noticeRolledBack = "I've rolled back your website to the selected version. You can now preview it."
)

// RevisionService orchestrates the generation pipeline and its simpler
// sibling, rollback.
type RevisionService interface {
	MakeRevision(ctx context.Context, userID, projectID uuid.UUID, message string) error
	Rollback(ctx context.Context, userID, projectID, versionID uuid.UUID) error
}

type revisionService struct {
	users         repository.UserRepository
	projects      repository.ProjectRepository
	versions      repository.VersionRepository
	conversations repository.ConversationRepository
	ledger        CreditLedger
	completer     llm.Completer
	locks         *ProjectLocks
}

func NewRevisionService(
	users repository.UserRepository,
	projects repository.ProjectRepository,
	versions repository.VersionRepository,
	conversations repository.ConversationRepository,
	ledger CreditLedger,
	completer llm.Completer,
	locks *ProjectLocks,
) RevisionService {
	return &revisionService{
		users:         users,
		projects:      projects,
		versions:      versions,
		conversations: conversations,
		ledger:        ledger,
		completer:     completer,
		locks:         locks,
	}
}

var _ RevisionService = (*revisionService)(nil)

// MakeRevision runs the full pipeline: record the user turn, charge credits,
// enhance the prompt, regenerate the document, persist an immutable Version,
// and repoint the project. Any failure after the charge triggers exactly one
// compensating refund; conversation rows already appended are kept as
// progress breadcrumbs.
func (s *revisionService) MakeRevision(ctx context.Context, userID, projectID uuid.UUID, message string) error {
	// Preconditions, evaluated before the first durable write:
	// user exists, message non-empty, project exists, balance sufficient.
	var user models.User
	if err := s.users.GetByID(ctx, userID, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.New(appErr.CodeUnauthorized, "unauthorized")
		}
		return err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return appErr.New(appErr.CodeInvalid, "please enter a valid prompt")
	}

	unlock := s.locks.Acquire(projectID)
	defer unlock()

	var project models.WebsiteProject
	if err := s.projects.GetByID(ctx, projectID, &project); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.New(appErr.CodeNotFound, "project not found")
		}
		return err
	}

	if user.Credits < RevisionCost {
		return appErr.New(appErr.CodeInsufficientCredits, "insufficient credits")
	}

	logger.L().Info("revision started",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)

	// Step 1: the user turn is durable regardless of outcome.
	if err := s.appendTurn(ctx, projectID, models.RoleUser, message); err != nil {
		return err
	}

	// Step 2: charge. The conditional debit re-checks the balance atomically.
	chargeID, err := s.ledger.Charge(ctx, userID, projectID, RevisionCost)
	if err != nil {
		return err
	}

	if err := s.generate(ctx, &project, message); err != nil {
		// Single compensating action for steps 3-9.
		if rerr := s.ledger.Refund(ctx, chargeID); rerr != nil {
			logger.L().Error("refund after failed revision failed",
				zap.String("charge_id", chargeID.String()), zap.Error(rerr))
		}
		logger.L().Error("revision failed",
			zap.String("project_id", projectID.String()), zap.Error(err))
		return appErr.Wrap(err, appErr.CodeInternal, "generation failed")
	}

	if err := s.ledger.Settle(ctx, chargeID); err != nil {
		// The revision itself succeeded; a stuck pending row is picked up
		// by the reconciliation worker, so log and carry on.
		logger.L().Warn("settle charge failed",
			zap.String("charge_id", chargeID.String()), zap.Error(err))
	}

	logger.L().Info("revision completed",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// generate performs the two model calls and the version/pointer writes
// (steps 3-9). Errors bubble to MakeRevision, which owns compensation.
func (s *revisionService) generate(ctx context.Context, project *models.WebsiteProject, message string) error {
	system, userMsg := llm.EnhancePrompt(message)
	enhanced, err := s.completer.Complete(ctx, system, userMsg)
	if err != nil {
		return err
	}
	enhanced = strings.TrimSpace(enhanced)

	if err := s.appendTurn(ctx, project.ID, models.RoleAssistant,
		fmt.Sprintf("I've enhanced your prompt to: %s", enhanced)); err != nil {
		return err
	}
	if err := s.appendTurn(ctx, project.ID, models.RoleAssistant, noticeGenerating); err != nil {
		return err
	}

	system, userMsg = llm.GeneratePrompt(project.CurrentCode, enhanced)
	raw, err := s.completer.Complete(ctx, system, userMsg)
	if err != nil {
		return err
	}
	code := llm.Sanitize(raw)

	version := models.Version{
		ProjectID:   project.ID,
		Code:        code,
		Description: "Changes made",
	}
	if err := s.versions.Create(ctx, &version); err != nil {
		return err
	}

	if err := s.appendTurn(ctx, project.ID, models.RoleAssistant, noticeDone); err != nil {
		return err
	}

	// current_code and the version pointer move together, never separately.
	return s.projects.SetCurrent(ctx, project.ID, &version.ID, code)
}

// Rollback repoints the project at an existing version. It is free, creates
// no Version, and requires ownership.
func (s *revisionService) Rollback(ctx context.Context, userID, projectID, versionID uuid.UUID) error {
	unlock := s.locks.Acquire(projectID)
	defer unlock()

	var project models.WebsiteProject
	if err := s.projects.GetOwned(ctx, projectID, userID, &project); err != nil {
		return err
	}

	var version models.Version
	if err := s.versions.GetForProject(ctx, projectID, versionID, &version); err != nil {
		return err
	}

	if err := s.projects.SetCurrent(ctx, projectID, &version.ID, version.Code); err != nil {
		return err
	}

	if err := s.appendTurn(ctx, projectID, models.RoleAssistant, noticeRolledBack); err != nil {
		return err
	}

	logger.L().Info("rolled back",
		zap.String("project_id", projectID.String()),
		zap.String("version_id", versionID.String()),
	)
	return nil
}

func (s *revisionService) appendTurn(ctx context.Context, projectID uuid.UUID, role, content string) error {
	return s.conversations.Create(ctx, &models.Conversation{
		ProjectID: projectID,
		Role:      role,
		Content:   content,
	})
}
