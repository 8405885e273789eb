// Package accounts provisions member and user accounts.
//
// An account spans three records: the identity, the role record keyed by the
// identity id, and (for members) the profile. They are written in that order.
// If a later step fails, the earlier ones are undone in reverse so no
// half-created account is left behind.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

// Roles is the subset of userrolestore.Store the service needs.
type Roles interface {
	Put(ctx context.Context, ur models.UserRole) (models.UserRole, error)
	Get(ctx context.Context, id string) (models.UserRole, error)
	Delete(ctx context.Context, id string) error
}

// Profiles is the subset of memberstore.Store the service needs.
type Profiles interface {
	Create(ctx context.Context, m models.Member) (models.Member, error)
}

// InvalidError is an input problem the admin can fix in the form.
type InvalidError struct {
	Msg string
}

func (e *InvalidError) Error() string { return e.Msg }

func invalid(msg string) error { return &InvalidError{Msg: msg} }

type Service struct {
	idp     identity.Provider
	roles   Roles
	members Profiles
	log     *zap.Logger
	now     func() time.Time
}

func New(idp identity.Provider, roles Roles, members Profiles, log *zap.Logger) *Service {
	return &Service{idp: idp, roles: roles, members: members, log: log, now: time.Now}
}

// DerivePassword returns the initial password for a new account: the first
// word of the name followed by "@123". "John Smith" gives "John@123".
func DerivePassword(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0] + "@123"
}

// MemberInput is the add-member form.
type MemberInput struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Package     models.Package
	// Photo is an optional http(s) image URL.
	Photo string
}

// UserInput is the add-user form.
type UserInput struct {
	Name  string
	Email string
	Phone string
}

// Provisioned describes a created account. Password is shown to the admin
// once and must never be logged.
type Provisioned struct {
	IdentityID string
	Email      string
	Password   string
	Member     *models.Member
}

func (in *MemberInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	if in.Name == "" {
		return invalid("Name is required")
	}
	if !identity.ValidEmail(in.Email) {
		return invalid("Please enter a valid email address")
	}
	if in.Phone == "" {
		return invalid("Phone is required")
	}
	if in.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", in.DateOfBirth); err != nil {
			return invalid("Date of birth must be YYYY-MM-DD")
		}
	}
	pkg, ok := models.ParsePackage(string(in.Package))
	if !ok {
		return invalid("Please choose a package")
	}
	in.Package = pkg
	in.Photo = strings.TrimSpace(in.Photo)
	if _, err := ParsePhoto(in.Photo); err != nil {
		return err
	}
	return nil
}

// ParsePhoto validates an optional photo URL. Blank yields nil.
func ParsePhoto(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("Photo must be an http or https URL")
	}
	return &raw, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (in *UserInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return invalid("Name is required")
	}
	if !identity.ValidEmail(in.Email) {
		return invalid("Please enter a valid email address")
	}
	return nil
}

// CreateMember provisions identity, member role record and member profile.
func (s *Service) CreateMember(ctx context.Context, in MemberInput) (Provisioned, error) {
	if err := in.normalize(); err != nil {
		return Provisioned{}, err
	}

	password := DerivePassword(in.Name)
	id, err := s.idp.SignUp(ctx, in.Email, password)
	if err != nil {
		return Provisioned{}, fmt.Errorf("create identity: %w", err)
	}

	if _, err := s.roles.Put(ctx, models.UserRole{
		ID:        id.ID,
		Email:     in.Email,
		Role:      models.RoleMember,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return Provisioned{}, s.compensate(ctx, id.ID, false, fmt.Errorf("write role record: %w", err))
	}

	m, err := s.members.Create(ctx, models.Member{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		Package:     in.Package,
		Photo:       optional(in.Photo),
		Status:      models.MemberActive,
		JoinDate:    s.now().UTC(),
	})
	if err != nil {
		return Provisioned{}, s.compensate(ctx, id.ID, true, fmt.Errorf("write member profile: %w", err))
	}

	return Provisioned{IdentityID: id.ID, Email: in.Email, Password: password, Member: &m}, nil
}

// CreateUser provisions identity and a read-only user role record.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (Provisioned, error) {
	if err := in.normalize(); err != nil {
		return Provisioned{}, err
	}

	password := DerivePassword(in.Name)
	id, err := s.idp.SignUp(ctx, in.Email, password)
	if err != nil {
		return Provisioned{}, fmt.Errorf("create identity: %w", err)
	}

	ur := models.UserRole{
		ID:        id.ID,
		Email:     in.Email,
		Role:      models.RoleUser,
		Name:      in.Name,
		CreatedAt: s.now().UTC(),
	}
	if in.Phone != "" {
		phone := in.Phone
		ur.Phone = &phone
	}
	if _, err := s.roles.Put(ctx, ur); err != nil {
		return Provisioned{}, s.compensate(ctx, id.ID, false, fmt.Errorf("write role record: %w", err))
	}

	return Provisioned{IdentityID: id.ID, Email: in.Email, Password: password}, nil
}

// compensate undoes the role record (when written) and the identity.
// Compensation failures are joined to cause, which stays matchable.
func (s *Service) compensate(ctx context.Context, identityID string, roleWritten bool, cause error) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{cause}

	if roleWritten {
		if err := s.roles.Delete(ctx, identityID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.Error("compensation: delete role record failed",
				zap.String("identity_id", identityID), zap.Error(err))
			errs = append(errs, fmt.Errorf("compensate role record: %w", err))
		}
	}
	if err := s.idp.Delete(ctx, identityID); err != nil {
		s.log.Error("compensation: delete identity failed",
			zap.String("identity_id", identityID), zap.Error(err))
		errs = append(errs, fmt.Errorf("compensate identity: %w", err))
	}

	s.log.Warn("account provisioning rolled back",
		zap.String("identity_id", identityID), zap.Error(cause))
	return errors.Join(errs...)
}

// DeleteUser removes a user account's role record, then its identity.
// Losing the role record is enough to lock the account out, so an identity
// delete failure is logged rather than returned.
func (s *Service) DeleteUser(ctx context.Context, identityID string) error {
	ur, err := s.roles.Get(ctx, identityID)
	if err != nil {
		return err
	}
	if ur.Role != models.RoleUser {
		return invalid("Only user accounts can be deleted here")
	}
	if err := s.roles.Delete(ctx, identityID); err != nil {
		return err
	}
	if err := s.idp.Delete(ctx, identityID); err != nil {
		s.log.Warn("user identity not deleted; role record removed",
			zap.String("identity_id", identityID), zap.Error(err))
	}
	return nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// identity is reused when the password matches. It reports whether anything
// was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	created := false

	id, err := s.idp.SignUp(ctx, email, password)
	switch {
	case err == nil:
		created = true
	case errors.Is(err, identity.ErrEmailExists):
		id, err = s.idp.SignIn(ctx, email, password)
		if err != nil {
			return false, fmt.Errorf("admin identity exists but sign-in failed: %w", err)
		}
	default:
		return false, fmt.Errorf("create admin identity: %w", err)
	}

	ur, err := s.roles.Get(ctx, id.ID)
	switch {
	case err == nil:
		if ur.Role != models.RoleAdmin {
			return created, fmt.Errorf("identity %s already holds role %q", id.ID, ur.Role)
		}
		return created, nil
	case !errors.Is(err, store.ErrNotFound):
		return created, err
	}

	if _, err := s.roles.Put(ctx, models.UserRole{
		ID:        id.ID,
		Email:     email,
		Role:      models.RoleAdmin,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		if created {
			return false, s.compensate(ctx, id.ID, false, fmt.Errorf("write admin role: %w", err))
		}
		return false, fmt.Errorf("write admin role: %w", err)
	}
	return true, nil
}
