package blood

import "context"

type DonorRepository interface {
	CreateDonor(ctx context.Context, d Donor) error
	GetDonor(ctx context.Context, id string) (Donor, error)
	// GetDonorByUser devuelve ErrNotFound si el usuario no es donante.
	GetDonorByUser(ctx context.Context, userID string) (Donor, error)
	// ListAvailable: bloodType "" = todos; más recientes primero.
	ListAvailable(ctx context.Context, bloodType BloodType, limit int) ([]Donor, error)
	UpdateDonor(ctx context.Context, d Donor) error
	DeleteDonor(ctx context.Context, id string) error
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, r Request) error
	GetRequest(ctx context.Context, id string) (Request, error)
	// ListRequests: status "" = todos; más recientes primero.
	ListRequests(ctx context.Context, status RequestStatus, limit int) ([]Request, error)
	UpdateRequest(ctx context.Context, r Request) error
	DeleteRequest(ctx context.Context, id string) error
}

type Repository interface {
	DonorRepository
	RequestRepository
}
