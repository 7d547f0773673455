package reminders

import "context"

type Repository interface {
	Create(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	// ListByUser devuelve los schedules del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]Schedule, error)
	Update(ctx context.Context, s Schedule) error
	Delete(ctx context.Context, id string) error
}

// ChangeNotifier recibe aviso tras cada alta/edición/baja/pausa de un usuario.
type ChangeNotifier interface {
	SchedulesChanged(ctx context.Context, userID string)
}

type nopNotifier struct{}

func (nopNotifier) SchedulesChanged(context.Context, string) {}
