package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrSuspended      = errors.New("account suspended")
)

type UserUC struct {
	Users domain.UserRepo
}

func (uc *UserUC) Signup(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, errors.New("invalid email")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name required")
	}
	if len(password) < 8 {
		return nil, errors.New("password too short")
	}
	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *UserUC) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	if u.Status == domain.UserSuspended {
		return nil, ErrSuspended
	}
	now := time.Now()
	u.LastLogin = &now
	_ = uc.Users.Save(ctx, u)
	return u, nil
}

// Create adds an account on behalf of an administrator. Role and status
// default to user/active; a password is optional (the account then works
// only through Google sign-in until one is set).
func (uc *UserUC) Create(ctx context.Context, email, name, password string, role domain.UserRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, errors.New("invalid email")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name required")
	}
	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	u := &domain.User{
		ID:     uuid.New(),
		Email:  email,
		Name:   strings.TrimSpace(name),
		Role:   domain.RoleUser,
		Status: domain.UserActive,
	}
	if role != "" {
		u.Role = role
	}
	if password != "" {
		if len(password) < 8 {
			return nil, errors.New("password too short")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertGoogle finds or creates the account behind a Google sign-in.
// Google accounts have no local password.
func (uc *UserUC) UpsertGoogle(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		u = &domain.User{
			ID:     uuid.New(),
			Email:  email,
			Name:   name,
			Role:   domain.RoleUser,
			Status: domain.UserActive,
		}
		if err := uc.Users.Save(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Status == domain.UserSuspended {
		return nil, ErrSuspended
	}
	now := time.Now()
	u.LastLogin = &now
	_ = uc.Users.Save(ctx, u)
	return u, nil
}

func (uc *UserUC) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.Users.FindByID(ctx, id)
}

func (uc *UserUC) List(ctx context.Context) ([]domain.User, error) {
	return uc.Users.List(ctx)
}

func (uc *UserUC) SetStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	switch status {
	case domain.UserActive, domain.UserSuspended, domain.UserPending:
	default:
		return errors.New("unknown status")
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Status = status
	return uc.Users.Save(ctx, u)
}

func (uc *UserUC) SetRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return errors.New("unknown role")
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Role = role
	return uc.Users.Save(ctx, u)
}

func (uc *UserUC) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.Users.Delete(ctx, id)
}

func (uc *UserUC) UpdateProfile(ctx context.Context, id uuid.UUID, name, company, phone, bio string) (*domain.User, error) {
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) != "" {
		u.Name = strings.TrimSpace(name)
	}
	u.Company = company
	u.Phone = phone
	u.Bio = bio
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
