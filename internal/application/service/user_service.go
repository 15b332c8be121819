package service

import (
	"context"
	"strings"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"github.com/google/uuid"
)

// UserService manages operator accounts
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers lists operator accounts
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      enum.Role
}

// CreateUser adds an operator account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	var errs apperror.FieldErrors
	firstName := requireName(&errs, "first_name", input.FirstName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		errs.Add("email", "is required")
	}
	if len(input.Password) < minPasswordLength {
		errs.Add("password", "must be at least 8 characters")
	}
	role := input.Role
	if role == "" {
		role = enum.RoleClerk
	}
	if !role.IsValid() {
		errs.Add("role", "must be admin or clerk")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		Active:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUserInput represents the update user input. Nil fields are left unchanged.
type UpdateUserInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Role    *enum.Role
	Active  *bool
}

// UpdateUser changes a user's role or active flag. The last active admin
// cannot be demoted or deactivated, and nobody can lock themselves out.
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	demoting := input.Role != nil && *input.Role != enum.RoleAdmin && user.IsAdmin()
	deactivating := input.Active != nil && !*input.Active && user.Active
	if (demoting || deactivating) && input.ActorID == user.ID {
		return nil, apperror.NewBadRequestError("You cannot demote or deactivate your own account")
	}
	if (demoting || deactivating) && user.IsAdmin() && user.Active {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "role", Message: "must be admin or clerk"}})
		}
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an operator account other than the caller's own
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if actorID == user.ID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	if user.IsAdmin() && user.Active {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperror.NewConflictError("At least one active admin is required")
	}
	return nil
}
