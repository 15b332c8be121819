package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"github.com/google/uuid"
)

const minPasswordLength = 8

// AuthService signs operators in and lets them manage their own account
type AuthService struct {
	users repository.UserRepository
	jwt   *utils.JWTManager
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, jwt *utils.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt, now: time.Now}
}

// Session is the token pair handed to a signed-in operator
type Session struct {
	User         *entity.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

// Login checks the password of an active account and records the sign-in time.
// Unknown, inactive and wrong-password accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active || !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	signedIn := s.now()
	user.LastLoginAt = &signedIn
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.session(user)
}

// Refresh trades a refresh token for a new pair while the account stays active
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperror.ErrInvalidToken
	}
	return s.session(user)
}

func (s *AuthService) session(user *entity.User) (*Session, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwt.AccessTokenExpiry() / time.Second),
	}, nil
}

// Profile returns the signed-in user
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePassword requires the current password before storing a new hash
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(current, user.Password) {
		return apperror.NewAppError(http.StatusBadRequest, "Current password is incorrect")
	}

	var errs apperror.FieldErrors
	if len(next) < minPasswordLength {
		errs.Add("new_password", "must be at least 8 characters")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if user.Password, err = utils.HashPassword(next); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// UpdateProfile renames the signed-in user. Blank names are left unchanged.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*entity.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(firstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		user.LastName = v
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
