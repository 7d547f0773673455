package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-directory/internal/ports/auth"
)

type testRepo struct {
	byID    map[string]Profile
	creates int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}}
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; ok {
		return ErrAlreadyExists
	}
	r.creates++
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestMe_CreatesOnFirstAccess(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	claims := auth.Claims{UserID: "u-1", Email: "ana@example.com"}

	p, err := svc.Me(ctx, claims)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if p.Role != RoleUser || p.Email != "ana@example.com" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := svc.Me(ctx, claims); err != nil {
		t.Fatalf("Me again: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected 1 create, got %d", repo.creates)
	}

	if _, err := svc.Me(ctx, auth.Claims{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateMe_PartialFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	claims := auth.Claims{UserID: "u-1"}

	name, city := "  Ana Pérez ", "Lima"
	p, err := svc.UpdateMe(ctx, claims, UpdateInput{FullName: &name, City: &city})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if p.FullName != "Ana Pérez" || p.City != "Lima" || p.Phone != "" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	phone := "999"
	p, err = svc.UpdateMe(ctx, claims, UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if p.FullName != "Ana Pérez" || p.Phone != "999" {
		t.Fatalf("fields lost: %+v", p)
	}
}

func TestSetRole_AndRoleOf(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if role, err := svc.RoleOf(ctx, "ghost"); err != nil || role != RoleUser {
		t.Fatalf("RoleOf(ghost) = %q, %v", role, err)
	}

	if _, err := svc.Me(ctx, auth.Claims{UserID: "u-1"}); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if _, err := svc.SetRole(ctx, "u-1", "superuser"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SetRole(ctx, "ghost", RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, err := svc.SetRole(ctx, "u-1", RoleAdmin)
	if err != nil || p.Role != RoleAdmin {
		t.Fatalf("SetRole = %+v, %v", p, err)
	}
	if role, _ := svc.RoleOf(ctx, "u-1"); role != RoleAdmin {
		t.Fatalf("RoleOf = %q", role)
	}
}
