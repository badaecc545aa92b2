package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chiedozieu/website-builder/internal/models"
	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	"github.com/chiedozieu/website-builder/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by services)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// Mock implementations

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, obj *models.User) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, obj *models.User) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	return m.Called(ctx, email, dest).Error(0)
}

func (m *mockUserRepository) IncrementTotalCreation(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) Create(ctx context.Context, obj *models.WebsiteProject) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id any, dest *models.WebsiteProject) error {
	args := m.Called(ctx, id, dest)
	return args.Error(0)
}

func (m *mockProjectRepository) Update(ctx context.Context, obj *models.WebsiteProject) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockProjectRepository) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProjectRepository) GetOwned(ctx context.Context, projectID, userID uuid.UUID, dest *models.WebsiteProject) error {
	return m.Called(ctx, projectID, userID, dest).Error(0)
}

func (m *mockProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WebsiteProject, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]models.WebsiteProject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProjectRepository) ListPublished(ctx context.Context) ([]models.WebsiteProject, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.WebsiteProject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProjectRepository) SetCurrent(ctx context.Context, projectID uuid.UUID, versionID *uuid.UUID, code string) error {
	return m.Called(ctx, projectID, versionID, code).Error(0)
}

func (m *mockProjectRepository) SetPublished(ctx context.Context, projectID uuid.UUID, published bool) error {
	return m.Called(ctx, projectID, published).Error(0)
}

type mockVersionRepository struct {
	mock.Mock
}

func (m *mockVersionRepository) Create(ctx context.Context, obj *models.Version) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockVersionRepository) GetByID(ctx context.Context, id any, dest *models.Version) error {
	return m.Called(ctx, id, dest).Error(0)
}

func (m *mockVersionRepository) Update(ctx context.Context, obj *models.Version) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockVersionRepository) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockVersionRepository) GetForProject(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error {
	return m.Called(ctx, projectID, versionID, dest).Error(0)
}

func (m *mockVersionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Version, error) {
	args := m.Called(ctx, projectID)
	if v := args.Get(0); v != nil {
		return v.([]models.Version), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockConversationRepository struct {
	mock.Mock
}

func (m *mockConversationRepository) Create(ctx context.Context, obj *models.Conversation) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockConversationRepository) GetByID(ctx context.Context, id any, dest *models.Conversation) error {
	return m.Called(ctx, id, dest).Error(0)
}

func (m *mockConversationRepository) Update(ctx context.Context, obj *models.Conversation) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockConversationRepository) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockConversationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, projectID)
	if v := args.Get(0); v != nil {
		return v.([]models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCreditLedger struct {
	mock.Mock
}

func (m *mockCreditLedger) Charge(ctx context.Context, userID, projectID uuid.UUID, amount int) (uuid.UUID, error) {
	args := m.Called(ctx, userID, projectID, amount)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockCreditLedger) Refund(ctx context.Context, chargeID uuid.UUID) error {
	return m.Called(ctx, chargeID).Error(0)
}

func (m *mockCreditLedger) Settle(ctx context.Context, chargeID uuid.UUID) error {
	return m.Called(ctx, chargeID).Error(0)
}

func (m *mockCreditLedger) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

type revisionFixture struct {
	users         *mockUserRepository
	projects      *mockProjectRepository
	versions      *mockVersionRepository
	conversations *mockConversationRepository
	ledger        *mockCreditLedger
	completer     *mockCompleter
	svc           RevisionService
}

func newRevisionFixture() *revisionFixture {
	f := &revisionFixture{
		users:         &mockUserRepository{},
		projects:      &mockProjectRepository{},
		versions:      &mockVersionRepository{},
		conversations: &mockConversationRepository{},
		ledger:        &mockCreditLedger{},
		completer:     &mockCompleter{},
	}
	f.svc = NewRevisionService(f.users, f.projects, f.versions, f.conversations, f.ledger, f.completer, NewProjectLocks())
	return f
}

func (f *revisionFixture) expectUser(userID uuid.UUID, credits int) {
	user := models.User{ID: userID, Email: "a@b.c", Name: "test", Credits: credits}
	f.users.On("GetByID", mock.Anything, userID, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*models.User) = user
		}).Return(nil)
}

func (f *revisionFixture) expectProject(projectID, userID uuid.UUID, currentCode string) {
	project := models.WebsiteProject{ID: projectID, UserID: userID, Name: "site", CurrentCode: currentCode}
	f.projects.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("*models.WebsiteProject")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*models.WebsiteProject) = project
		}).Return(nil)
}

func conversationWith(role, content string) any {
	return mock.MatchedBy(func(c *models.Conversation) bool {
		return c.Role == role && c.Content == content
	})
}

func TestMakeRevision_Success(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	chargeID := uuid.New()
	versionID := uuid.New()

	f := newRevisionFixture()
	f.expectUser(userID, 10)
	f.expectProject(projectID, userID, "<html>old</html>")

	f.conversations.On("Create", mock.Anything, conversationWith(models.RoleUser, "make the header blue")).Return(nil).Once()
	f.ledger.On("Charge", mock.Anything, userID, projectID, RevisionCost).Return(chargeID, nil).Once()

	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(sys string) bool {
		return strings.Contains(sys, "prompt enhancement specialist")
	}), mock.MatchedBy(func(user string) bool {
		return strings.Contains(user, "make the header blue")
	})).Return("Change the header background to blue-600 with white text.", nil).Once()

	f.conversations.On("Create", mock.Anything, conversationWith(models.RoleAssistant,
		"I've enhanced your prompt to: Change the header background to blue-600 with white text.")).Return(nil).Once()
	f.conversations.On("Create", mock.Anything, conversationWith(models.RoleAssistant, noticeGenerating)).Return(nil).Once()

	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(sys string) bool {
		return strings.Contains(sys, "expert web developer")
	}), mock.MatchedBy(func(user string) bool {
		return strings.Contains(user, "<html>old</html>") &&
			strings.Contains(user, "Change the header background to blue-600")
	})).Return("```html\n<html>new</html>\n```", nil).Once()

	f.versions.On("Create", mock.Anything, mock.MatchedBy(func(v *models.Version) bool {
		return v.ProjectID == projectID && v.Code == "<html>new</html>" && v.Description == "Changes made"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Version).ID = versionID
	}).Return(nil).Once()

	f.conversations.On("Create", mock.Anything, conversationWith(models.RoleAssistant, noticeDone)).Return(nil).Once()

	f.projects.On("SetCurrent", mock.Anything, projectID, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == versionID
	}), "<html>new</html>").Return(nil).Once()

	f.ledger.On("Settle", mock.Anything, chargeID).Return(nil).Once()

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "make the header blue")
	require.NoError(t, err)

	mock.AssertExpectationsForObjects(t, f.users, f.projects, f.versions, f.conversations, f.ledger, f.completer)
	f.ledger.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestMakeRevision_GenerationFailureRefunds(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	chargeID := uuid.New()

	f := newRevisionFixture()
	f.expectUser(userID, 10)
	f.expectProject(projectID, userID, "<html>old</html>")

	f.conversations.On("Create", mock.Anything, mock.AnythingOfType("*models.Conversation")).Return(nil)
	f.ledger.On("Charge", mock.Anything, userID, projectID, RevisionCost).Return(chargeID, nil).Once()

	// Enhancement succeeds, generation fails.
	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(sys string) bool {
		return strings.Contains(sys, "prompt enhancement specialist")
	}), mock.Anything).Return("Be specific about the footer.", nil).Once()
	f.completer.On("Complete", mock.Anything, mock.MatchedBy(func(sys string) bool {
		return strings.Contains(sys, "expert web developer")
	}), mock.Anything).Return("", appErr.New(appErr.CodeUnavailable, "model call timed out")).Once()

	f.ledger.On("Refund", mock.Anything, chargeID).Return(nil).Once()

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "fix the footer")
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeInternal))

	// The surfaced message is redacted; the cause stays wrapped.
	var ae *appErr.AppError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "generation failed", ae.Message)

	f.versions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.projects.AssertNotCalled(t, "SetCurrent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mock.AssertExpectationsForObjects(t, f.ledger, f.completer)
}

func TestMakeRevision_EnhancementFailureRefunds(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	chargeID := uuid.New()

	f := newRevisionFixture()
	f.expectUser(userID, 8)
	f.expectProject(projectID, userID, "")

	f.conversations.On("Create", mock.Anything, mock.AnythingOfType("*models.Conversation")).Return(nil)
	f.ledger.On("Charge", mock.Anything, userID, projectID, RevisionCost).Return(chargeID, nil).Once()
	f.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", appErr.New(appErr.CodeUnavailable, "model returned empty completion")).Once()
	f.ledger.On("Refund", mock.Anything, chargeID).Return(nil).Once()

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "add a hero section")
	require.True(t, appErr.IsCode(err, appErr.CodeInternal))
	mock.AssertExpectationsForObjects(t, f.ledger)
}

func TestMakeRevision_InsufficientCredits(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	f := newRevisionFixture()
	f.expectUser(userID, 4)
	f.expectProject(projectID, userID, "<html></html>")

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "make it pop")
	require.True(t, appErr.IsCode(err, appErr.CodeInsufficientCredits))

	// No write, no charge, no model call.
	f.conversations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestMakeRevision_WhitespaceMessage(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	f := newRevisionFixture()
	f.expectUser(userID, 10)

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "   \t\n ")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	f.conversations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMakeRevision_UnknownUser(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	f := newRevisionFixture()
	f.users.On("GetByID", mock.Anything, userID, mock.AnythingOfType("*models.User")).
		Return(appErr.New(appErr.CodeNotFound, "entity not found"))

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "anything")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestMakeRevision_ProjectNotFound(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	f := newRevisionFixture()
	f.expectUser(userID, 10)
	f.projects.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("*models.WebsiteProject")).
		Return(appErr.New(appErr.CodeNotFound, "entity not found"))

	err := f.svc.MakeRevision(context.Background(), userID, projectID, "change colors")
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	f.ledger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRollback_Success(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	versionID := uuid.New()

	f := newRevisionFixture()

	project := models.WebsiteProject{ID: projectID, UserID: userID, CurrentCode: "<html>v2</html>"}
	f.projects.On("GetOwned", mock.Anything, projectID, userID, mock.AnythingOfType("*models.WebsiteProject")).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*models.WebsiteProject) = project
		}).Return(nil).Once()

	version := models.Version{ID: versionID, ProjectID: projectID, Code: "<html>v1</html>", Description: "Changes made"}
	f.versions.On("GetForProject", mock.Anything, projectID, versionID, mock.AnythingOfType("*models.Version")).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*models.Version) = version
		}).Return(nil).Once()

	f.projects.On("SetCurrent", mock.Anything, projectID, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == versionID
	}), "<html>v1</html>").Return(nil).Once()

	f.conversations.On("Create", mock.Anything, conversationWith(models.RoleAssistant, noticeRolledBack)).Return(nil).Once()

	err := f.svc.Rollback(context.Background(), userID, projectID, versionID)
	require.NoError(t, err)

	// Rollback never creates a Version and never touches the ledger.
	f.versions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mock.AssertExpectationsForObjects(t, f.projects, f.versions, f.conversations)
}

func TestRollback_VersionNotFound(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	versionID := uuid.New()

	f := newRevisionFixture()

	f.projects.On("GetOwned", mock.Anything, projectID, userID, mock.AnythingOfType("*models.WebsiteProject")).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*models.WebsiteProject) = models.WebsiteProject{ID: projectID, UserID: userID}
		}).Return(nil).Once()

	f.versions.On("GetForProject", mock.Anything, projectID, versionID, mock.AnythingOfType("*models.Version")).
		Return(appErr.New(appErr.CodeNotFound, "version not found")).Once()

	err := f.svc.Rollback(context.Background(), userID, projectID, versionID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	// Project state is untouched on a failed rollback.
	f.projects.AssertNotCalled(t, "SetCurrent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.conversations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRollback_ProjectNotOwned(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	versionID := uuid.New()

	f := newRevisionFixture()
	f.projects.On("GetOwned", mock.Anything, projectID, userID, mock.AnythingOfType("*models.WebsiteProject")).
		Return(appErr.New(appErr.CodeNotFound, "project not found")).Once()

	err := f.svc.Rollback(context.Background(), userID, projectID, versionID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}
