package auth

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
)

// MinPasswordLength is the shortest password the register form accepts.
const MinPasswordLength = 6

// Gateway exchanges credentials for a bearer token.
type Gateway interface {
	Register(ctx context.Context, input blogapi.RegisterInput) (string, error)
	Login(ctx context.Context, input blogapi.LoginInput) (string, error)
}

type registerForm struct {
	Name            string
	Username        string
	Password        string
	PasswordConfirm string
}

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	return service{gateway: gateway}
}

func (s service) login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", apperrors.EK(apperrors.KindInvalidInput, "error.web.auth.fields_required", "username and password are required")
	}
	return s.gateway.Login(ctx, blogapi.LoginInput{Username: username, Password: password})
}

func (s service) register(ctx context.Context, form registerForm) (string, error) {
	if err := validateRegister(form); err != nil {
		return "", err
	}
	return s.gateway.Register(ctx, blogapi.RegisterInput{
		Name:     strings.TrimSpace(form.Name),
		Username: strings.TrimSpace(form.Username),
		Password: form.Password,
	})
}

func validateRegister(form registerForm) error {
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Username) == "" || form.Password == "" || form.PasswordConfirm == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "error.web.auth.fields_required", "all fields are required")
	}
	if form.Password != form.PasswordConfirm {
		return apperrors.EK(apperrors.KindInvalidInput, "error.web.auth.passwords_mismatch", "passwords do not match")
	}
	if utf8.RuneCountInString(form.Password) < MinPasswordLength {
		return apperrors.EK(apperrors.KindInvalidInput, "error.web.auth.password_too_short", "password is too short")
	}
	return nil
}
