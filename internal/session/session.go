package session

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shivanimeena11/plantweb/internal/storage"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
	"github.com/shivanimeena11/plantweb/pkg/validation"
)

// Marker is the unverified "user" entry in session storage. Its presence is the only
// thing the access gate checks.
type Marker struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginInput struct {
	Name     string `json:"name" validate:"required,alpha_space"`
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignupInput struct {
	Name            string `json:"name" validate:"required,alpha_space"`
	Email           string `json:"email" validate:"required,loose_email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

var failureMessages = map[string]string{
	"name":             "Invalid name",
	"email":            "Invalid email",
	"password":         "Password must be at least 6 characters",
	"confirm_password": "Passwords do not match",
}

// Service writes and clears the session marker. It performs format checks only;
// passwords are never stored or verified.
type Service struct {
	logg *logger.Logger
}

func NewService(logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{logg: logg}
}

func (s *Service) Login(ctx context.Context, st storage.Storage, in LoginInput) (Marker, error) {
	if err := check(&in); err != nil {
		return Marker{}, err
	}
	return s.write(ctx, st, Marker{Name: in.Name, Email: in.Email})
}

// Signup is Login plus the confirmation check; there is no account to create.
func (s *Service) Signup(ctx context.Context, st storage.Storage, in SignupInput) (Marker, error) {
	if err := check(&in); err != nil {
		return Marker{}, err
	}
	return s.write(ctx, st, Marker{Name: in.Name, Email: in.Email})
}

// Logout removes the marker. Failures are logged only.
func (s *Service) Logout(ctx context.Context, st storage.Storage) {
	if err := st.RemoveItem(ctx, storage.KeyUser); err != nil {
		s.logg.WarnErr(ctx, "session marker remove failed", err)
	}
}

// Current returns the marker; unreadable or malformed markers read as absent.
func (s *Service) Current(ctx context.Context, st storage.Storage) (Marker, bool) {
	raw, ok, err := st.GetItem(ctx, storage.KeyUser)
	if err != nil {
		s.logg.WarnErr(ctx, "session marker unreadable", err)
		return Marker{}, false
	}
	if !ok {
		return Marker{}, false
	}
	return Decode(raw)
}

// Decode parses a stored marker. Anything that is not a JSON object with a name or email is absent.
func Decode(raw string) (Marker, bool) {
	if strings.TrimSpace(raw) == "" {
		return Marker{}, false
	}
	var m Marker
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Marker{}, false
	}
	if m.Name == "" && m.Email == "" {
		return Marker{}, false
	}
	return m, true
}

func (s *Service) write(ctx context.Context, st storage.Storage, m Marker) (Marker, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return Marker{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session marker")
	}
	if err := st.SetItem(ctx, storage.KeyUser, string(payload)); err != nil {
		return Marker{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
	}
	s.logg.Info(s.logg.WithField(ctx, "email", m.Email), "session marker written")
	return m, nil
}

// check validates in and reports the first failing field the way the login form does.
func check(in any) error {
	err := validation.Struct(in)
	if err == nil {
		return nil
	}
	typed := pkgerrors.As(err)
	fields := validation.FailedFields(err)
	if typed == nil || len(fields) == 0 {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, typed.Unwrap(), failureMessages[fields[0]]).WithDetails(typed.Details())
}
