package auth

import (
	"context"
	"testing"

	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
)

func TestValidateRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    registerForm
		wantKey string
	}{
		{name: "valid", form: registerForm{Name: "Ana", Username: "ana", Password: "secret", PasswordConfirm: "secret"}},
		{name: "blank username", form: registerForm{Name: "Ana", Username: "  ", Password: "secret", PasswordConfirm: "secret"}, wantKey: "error.web.auth.fields_required"},
		{name: "mismatch", form: registerForm{Name: "Ana", Username: "ana", Password: "secret", PasswordConfirm: "secreT"}, wantKey: "error.web.auth.passwords_mismatch"},
		{name: "counts runes", form: registerForm{Name: "Ana", Username: "ana", Password: "sênha", PasswordConfirm: "sênha"}, wantKey: "error.web.auth.password_too_short"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateRegister(tc.form)
			if got := apperrors.LocalizationKey(err); got != tc.wantKey {
				t.Fatalf("key = %q, want %q", got, tc.wantKey)
			}
			if tc.wantKey != "" && apperrors.KindOf(err) != apperrors.KindInvalidInput {
				t.Fatalf("kind = %q", apperrors.KindOf(err))
			}
		})
	}
}

func TestLoginTrimsUsername(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{token: "jwt"}
	token, err := newService(gw).login(context.Background(), "  ana\t", "pw")
	if err != nil || token != "jwt" {
		t.Fatalf("login() = %q, %v", token, err)
	}
	if gw.logins[0].Username != "ana" {
		t.Fatalf("username = %q", gw.logins[0].Username)
	}
}
