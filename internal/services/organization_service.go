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
)

var (
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
	ErrAlreadyMember           = errors.New("user is already a member")
	ErrInvalidRole             = errors.New("invalid role")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// CreateOrganization creates a new organization owned by the given user and
// records the membership on both the organization and the user. The user's
// first organization becomes their current one.
func (s *OrganizationService) CreateOrganization(ctx context.Context, owner *models.User, name string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	org := &models.Organization{
		Name:    name,
		Slug:    utils.GenerateSlug(name),
		OwnerID: owner.ID,
		Members: []primitive.ObjectID{owner.ID},
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	membership := models.Membership{
		OrganizationID: org.ID,
		Role:           models.RoleOwner,
	}
	if err := s.userRepo.AddMembership(ctx, owner.ID, membership); err != nil {
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}

	if owner.CurrentOrganizationID == nil {
		if err := s.userRepo.SetCurrentOrganization(ctx, owner.ID, org.ID); err != nil {
			return nil, fmt.Errorf("failed to set current organization: %w", err)
		}
	}

	return org, nil
}

// ListForUser returns the organizations the user belongs to, driven by the
// membership list on the user record.
func (s *OrganizationService) ListForUser(ctx context.Context, user *models.User) ([]models.Organization, error) {
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

// MemberUsers loads the member user records of an organization, passwords
// excluded.
func (s *OrganizationService) MemberUsers(ctx context.Context, org *models.Organization) ([]models.User, error) {
	users, err := s.userRepo.FindByIDs(ctx, org.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	return users, nil
}

// UpdateOrganizationInput holds the updatable organization fields.
type UpdateOrganizationInput struct {
	Name     *string
	Settings map[string]string
}

// Update applies a name change and merges settings onto the organization.
func (s *OrganizationService) Update(ctx context.Context, org *models.Organization, input UpdateOrganizationInput) (*models.Organization, error) {
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidOrganizationName
		}
		org.Name = *input.Name
	}
	if input.Settings != nil {
		if org.Settings == nil {
			org.Settings = map[string]string{}
		}
		for k, v := range input.Settings {
			org.Settings[k] = v
		}
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// InviteMember adds the user with the given email to the organization. The
// membership is written on both sides: the organization's members set and the
// user's organizations list.
func (s *OrganizationService) InviteMember(ctx context.Context, org *models.Organization, email string, role models.OrganizationRole) (*models.User, error) {
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleAdmin && role != models.RoleOwner {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if org.HasMember(user.ID) {
		return nil, ErrAlreadyMember
	}

	if err := s.orgRepo.AddMember(ctx, org.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	membership := models.Membership{
		OrganizationID: org.ID,
		Role:           role,
	}
	if err := s.userRepo.AddMembership(ctx, user.ID, membership); err != nil {
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}

	return user, nil
}
