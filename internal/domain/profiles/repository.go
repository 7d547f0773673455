package profiles

import "context"

type Repository interface {
	// Create devuelve ErrAlreadyExists si el id ya existe.
	Create(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	Update(ctx context.Context, p Profile) error
}
