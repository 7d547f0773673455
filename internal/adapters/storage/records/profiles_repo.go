package records

import (
	"context"
	"errors"
	"time"

	"health-directory/internal/domain/profiles"
	"health-directory/internal/ports/recordstore"
)

type profileRow struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProfileRow(p profiles.Profile) profileRow {
	return profileRow(p)
}

func (r profileRow) toProfile() profiles.Profile {
	p := profiles.Profile(r)
	if p.Role == "" {
		p.Role = profiles.RoleUser
	}
	return p
}

type ProfilesRepo struct {
	store recordstore.Store
}

func NewProfilesRepo(store recordstore.Store) *ProfilesRepo {
	return &ProfilesRepo{store: store}
}

var _ profiles.Repository = (*ProfilesRepo)(nil)

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.store.Insert(ctx, recordstore.TableProfiles, toProfileRow(p))
	if errors.Is(err, recordstore.ErrConflict) {
		return profiles.ErrAlreadyExists
	}
	return err
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	row, err := getOne[profileRow](ctx, r.store, recordstore.TableProfiles, id, profiles.ErrNotFound)
	if err != nil {
		return profiles.Profile{}, err
	}
	return row.toProfile(), nil
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	return update(ctx, r.store, recordstore.TableProfiles, p.ID, toProfileRow(p), profiles.ErrNotFound)
}
