package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanimeena11/plantweb/internal/storage"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
)

func sessionStorage() storage.Storage {
	return storage.NewProvider(storage.NewMemory(), 0).Session("tab")
}

func TestLoginWritesMarker(t *testing.T) {
	ctx := context.Background()
	st := sessionStorage()
	svc := NewService(nil)

	m, err := svc.Login(ctx, st, LoginInput{Name: "Asha Rao", Email: "asha@plants.in", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, Marker{Name: "Asha Rao", Email: "asha@plants.in"}, m)

	raw, ok, err := st.GetItem(ctx, storage.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Asha Rao","email":"asha@plants.in"}`, raw)

	current, ok := svc.Current(ctx, st)
	assert.True(t, ok)
	assert.Equal(t, m, current)
}

func TestLoginValidationReportsFirstFailure(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		in      LoginInput
		message string
	}{
		{"digits in name", LoginInput{Name: "Asha2", Email: "bad", Password: "x"}, "Invalid name"},
		{"bad email", LoginInput{Name: "Asha", Email: "asha@plants", Password: "secret1"}, "Invalid email"},
		{"short password", LoginInput{Name: "Asha", Email: "asha@plants.in", Password: "12345"}, "Password must be at least 6 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := sessionStorage()
			_, err := NewService(nil).Login(ctx, st, tc.in)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tc.message, typed.Message())

			_, ok, _ := st.GetItem(ctx, storage.KeyUser)
			assert.False(t, ok, "failed login must not write a marker")
		})
	}
}

func TestSignupRequiresMatchingPasswords(t *testing.T) {
	ctx := context.Background()
	st := sessionStorage()
	svc := NewService(nil)

	_, err := svc.Signup(ctx, st, SignupInput{Name: "Ravi", Email: "ravi@x.io", Password: "secret1", ConfirmPassword: "secret2"})
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", pkgerrors.As(err).Message())

	m, err := svc.Signup(ctx, st, SignupInput{Name: "Ravi", Email: "ravi@x.io", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", m.Name)
}

func TestLogoutClearsMarker(t *testing.T) {
	ctx := context.Background()
	st := sessionStorage()
	svc := NewService(nil)
	_, err := svc.Login(ctx, st, LoginInput{Name: "Asha", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	svc.Logout(ctx, st)
	_, ok := svc.Current(ctx, st)
	assert.False(t, ok)
}

func TestDecodeTreatsMalformedAsAbsent(t *testing.T) {
	for _, raw := range []string{"", "  ", "not json", "[]", `{}`, `"user"`} {
		_, ok := Decode(raw)
		assert.False(t, ok, raw)
	}
	m, ok := Decode(`{"name":"Asha"}`)
	assert.True(t, ok)
	assert.Equal(t, "Asha", m.Name)
}

type downStorage struct{}

func (downStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}
func (downStorage) SetItem(context.Context, string, string) error { return errors.New("down") }
func (downStorage) RemoveItem(context.Context, string) error      { return errors.New("down") }

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)

	_, err := svc.Login(ctx, downStorage{}, LoginInput{Name: "Asha", Email: "a@b.co", Password: "secret1"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))

	_, ok := svc.Current(ctx, downStorage{})
	assert.False(t, ok)
	svc.Logout(ctx, downStorage{})
}
