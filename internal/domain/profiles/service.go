package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"health-directory/internal/ports/auth"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	FullName *string
	Phone    *string
	City     *string
}

// Me devuelve el perfil del usuario y lo crea (rol user) en el primer acceso.
func (s *Service) Me(ctx context.Context, c auth.Claims) (Profile, error) {
	id := strings.TrimSpace(c.UserID)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	now := s.now()
	p = Profile{
		ID:        id,
		Email:     strings.TrimSpace(c.Email),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// Otro request lo creó en paralelo.
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetByID(ctx, id)
		}
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) UpdateMe(ctx context.Context, c auth.Claims, in UpdateInput) (Profile, error) {
	p, err := s.Me(ctx, c)
	if err != nil {
		return Profile{}, err
	}

	if in.FullName != nil {
		p.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		p.City = strings.TrimSpace(*in.City)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SetRole lo usa un admin para promover o degradar a otro usuario.
func (s *Service) SetRole(ctx context.Context, userID, role string) (Profile, error) {
	role = strings.TrimSpace(role)
	if !ValidRole(role) {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return Profile{}, err
	}
	if p.Role == role {
		return p, nil
	}
	p.Role = role
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// RoleOf alimenta middleware.RequireAdmin. Sin perfil => rol user.
func (s *Service) RoleOf(ctx context.Context, userID string) (string, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(userID))
	if errors.Is(err, ErrNotFound) {
		return RoleUser, nil
	}
	if err != nil {
		return "", err
	}
	return p.Role, nil
}
