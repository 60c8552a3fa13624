package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserNotFound          = errors.New("user not found")
	ErrNotOrganizationMember = errors.New("access denied to this organization")
)

// AuthService handles registration, login, and organization switching.
type AuthService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	OrganizationName string
}

// Register creates a new user along with their default organization. The
// three writes (user, organization, membership update) run sequentially
// without a transaction; a failure surfaces as-is with no compensation.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     input.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	org := &models.Organization{
		Name:    input.OrganizationName,
		Slug:    utils.GenerateSlug(input.OrganizationName),
		OwnerID: user.ID,
		Members: []primitive.ObjectID{user.ID},
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	membership := models.Membership{
		OrganizationID: org.ID,
		Role:           models.RoleOwner,
	}
	if err := s.userRepo.AddMembership(ctx, user.ID, membership); err != nil {
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}
	if err := s.userRepo.SetCurrentOrganization(ctx, user.ID, org.ID); err != nil {
		return nil, fmt.Errorf("failed to set current organization: %w", err)
	}

	user.Organizations = []models.Membership{membership}
	user.CurrentOrganizationID = &org.ID
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID, password excluded.
func (s *AuthService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// OrganizationsFor loads the organizations referenced by the user's
// membership list, for display projection.
func (s *AuthService) OrganizationsFor(ctx context.Context, user *models.User) ([]models.Organization, error) {
	ids := make([]primitive.ObjectID, len(user.Organizations))
	for i, m := range user.Organizations {
		ids[i] = m.OrganizationID
	}
	orgs, err := s.orgRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// SwitchOrganization changes the user's current organization after verifying
// membership. Concurrent switches are last-write-wins.
func (s *AuthService) SwitchOrganization(ctx context.Context, user *models.User, orgID primitive.ObjectID) error {
	if !user.IsMemberOf(orgID) {
		return ErrNotOrganizationMember
	}

	if err := s.userRepo.SetCurrentOrganization(ctx, user.ID, orgID); err != nil {
		return fmt.Errorf("failed to switch organization: %w", err)
	}
	return nil
}
