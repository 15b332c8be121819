package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	"github.com/erpdesk/erpdesk-api/internal/infrastructure/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
)

func newUserServices(t *testing.T) (*AuthService, *UserService) {
	t.Helper()
	env := newTestEnv(t)
	repo := repository.NewUserRepository(env.db)
	jwt := utils.NewJWTManager("test-secret", "erpdesk-test", time.Hour, 24*time.Hour)
	return NewAuthService(repo, jwt), NewUserService(repo)
}

func createUser(t *testing.T, users *UserService, email string, role enum.Role) *entity.User {
	t.Helper()
	u, err := users.CreateUser(context.Background(), &CreateUserInput{
		FirstName: "Test", Email: email, Password: "password123", Role: role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	auth, users := newUserServices(t)
	ctx := context.Background()
	u := createUser(t, users, "owner@example.com", enum.RoleAdmin)

	out, err := auth.Login(ctx, "owner@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" || out.ExpiresIn != 3600 || out.TokenType != "Bearer" {
		t.Errorf("tokens = %+v", out)
	}
	if out.User.ID != u.ID || out.User.LastLoginAt == nil {
		t.Errorf("user = %+v", out.User)
	}

	refreshed, err := auth.Refresh(ctx, out.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("empty access token after refresh")
	}

	if _, err := auth.Refresh(ctx, out.AccessToken); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Errorf("refresh with access token err = %v", err)
	}
	if _, err := auth.Login(ctx, "owner@example.com", "wrong-password"); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("bad password err = %v", err)
	}
	if _, err := auth.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestAuthService_InactiveUserCannotSignIn(t *testing.T) {
	auth, users := newUserServices(t)
	ctx := context.Background()
	admin := createUser(t, users, "owner@example.com", enum.RoleAdmin)
	clerk := createUser(t, users, "clerk@example.com", enum.RoleClerk)

	out, err := auth.Login(ctx, "clerk@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	inactive := false
	if _, err := users.UpdateUser(ctx, &UpdateUserInput{ActorID: admin.ID, UserID: clerk.ID, Active: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := auth.Login(ctx, "clerk@example.com", "password123"); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("inactive login err = %v", err)
	}
	if _, err := auth.Refresh(ctx, out.RefreshToken); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Errorf("inactive refresh err = %v", err)
	}
}

func TestAuthService_ChangePasswordAndProfile(t *testing.T) {
	auth, users := newUserServices(t)
	ctx := context.Background()
	u := createUser(t, users, "owner@example.com", enum.RoleAdmin)

	err := auth.ChangePassword(ctx, u.ID, "nope", "newpassword1")
	requireAppError(t, err, http.StatusBadRequest)

	err = auth.ChangePassword(ctx, u.ID, "password123", "short")
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	if !hasFieldError(appErr, "new_password", "must be at least 8 characters") {
		t.Errorf("errors = %+v", appErr.Errors)
	}

	if err := auth.ChangePassword(ctx, u.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := auth.Login(ctx, "owner@example.com", "newpassword1"); err != nil {
		t.Errorf("login with new password: %v", err)
	}

	updated, err := auth.UpdateProfile(ctx, u.ID, " Jane ", "  ")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FirstName != "Jane" || updated.LastName != "" {
		t.Errorf("profile = %+v", updated)
	}
}

func TestUserService_CreateValidation(t *testing.T) {
	_, users := newUserServices(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, &CreateUserInput{Email: " ", Password: "x", Role: enum.Role("owner")})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	for _, field := range []string{"first_name", "email", "password", "role"} {
		found := false
		for _, fe := range appErr.Errors {
			found = found || fe.Field == field
		}
		if !found {
			t.Errorf("missing %s error in %+v", field, appErr.Errors)
		}
	}

	u := createUser(t, users, "Clerk@Example.com", "")
	if u.Email != "clerk@example.com" || u.Role != enum.RoleClerk || !u.Active {
		t.Errorf("user = %+v", u)
	}

	_, err = users.CreateUser(ctx, &CreateUserInput{FirstName: "Dup", Email: "clerk@example.com", Password: "password123"})
	requireAppError(t, err, http.StatusConflict)
}

func TestUserService_LastAdminProtection(t *testing.T) {
	_, users := newUserServices(t)
	ctx := context.Background()
	first := createUser(t, users, "first@example.com", enum.RoleAdmin)
	second := createUser(t, users, "second@example.com", enum.RoleAdmin)

	clerk := enum.RoleClerk
	_, err := users.UpdateUser(ctx, &UpdateUserInput{ActorID: first.ID, UserID: first.ID, Role: &clerk})
	requireAppError(t, err, http.StatusBadRequest)
	requireAppError(t, users.DeleteUser(ctx, first.ID, first.ID), http.StatusBadRequest)

	demoted, err := users.UpdateUser(ctx, &UpdateUserInput{ActorID: first.ID, UserID: second.ID, Role: &clerk})
	if err != nil {
		t.Fatalf("demote second admin: %v", err)
	}
	if demoted.Role != enum.RoleClerk {
		t.Errorf("role = %s", demoted.Role)
	}

	// first is now the only active admin.
	_, err = users.UpdateUser(ctx, &UpdateUserInput{ActorID: second.ID, UserID: first.ID, Role: &clerk})
	appErr := requireAppError(t, err, http.StatusConflict)
	if appErr.Message != "At least one active admin is required" {
		t.Errorf("message = %q", appErr.Message)
	}
	requireAppError(t, users.DeleteUser(ctx, second.ID, first.ID), http.StatusConflict)

	if err := users.DeleteUser(ctx, first.ID, second.ID); err != nil {
		t.Fatalf("delete clerk: %v", err)
	}
	_, err = users.GetUser(ctx, second.ID)
	requireAppError(t, err, http.StatusNotFound)
}
