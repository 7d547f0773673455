package reminders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo     Repository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewService(repo Repository, notifier ChangeNotifier) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	MedicineName  string
	Dosage        string
	Frequency     Frequency
	ReminderTimes []string
	StartDate     time.Time
	EndDate       *time.Time
	Notes         string
	IsActive      *bool // nil => true
}

// UpdateInput: nil = no tocar. ClearEndDate quita la fecha de fin.
type UpdateInput struct {
	MedicineName  *string
	Dosage        *string
	Frequency     *Frequency
	ReminderTimes []string
	StartDate     *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	Notes         *string
	IsActive      *bool
}

func validate(s *Schedule) error {
	s.MedicineName = strings.TrimSpace(s.MedicineName)
	s.Dosage = strings.TrimSpace(s.Dosage)
	s.Notes = strings.TrimSpace(s.Notes)

	if s.MedicineName == "" || s.Dosage == "" || s.StartDate.IsZero() {
		return ErrInvalidInput
	}
	if s.Frequency == "" {
		s.Frequency = FrequencyOnceDaily
	}
	if !s.Frequency.Valid() {
		return ErrInvalidInput
	}

	slots, err := normalizeSlots(s.ReminderTimes)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		slots = DefaultTimes(s.Frequency)
	}
	s.ReminderTimes = slots

	if s.EndDate != nil && day(*s.EndDate) < day(s.StartDate) {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Schedule, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Schedule{}, ErrInvalidInput
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := s.now()
	sc := Schedule{
		ID:            uuid.NewString(),
		UserID:        userID,
		MedicineName:  in.MedicineName,
		Dosage:        in.Dosage,
		Frequency:     in.Frequency,
		ReminderTimes: in.ReminderTimes,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Notes:         in.Notes,
		IsActive:      active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validate(&sc); err != nil {
		return Schedule{}, err
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		return Schedule{}, err
	}
	s.notifier.SchedulesChanged(ctx, userID)
	return sc, nil
}

// Get devuelve el schedule sólo a su dueño.
func (s *Service) Get(ctx context.Context, userID, id string) (Schedule, error) {
	sc, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Schedule{}, ErrNotFound
	}
	if sc.UserID != userID {
		return Schedule{}, ErrForbidden
	}
	return sc, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Schedule, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// Today es la proyección de los schedules activos hoy.
func (s *Service) Today(ctx context.Context, userID string) ([]Schedule, error) {
	list, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ActiveToday(list, s.now()), nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Schedule, error) {
	sc, err := s.Get(ctx, userID, id)
	if err != nil {
		return Schedule{}, err
	}

	if in.MedicineName != nil {
		sc.MedicineName = *in.MedicineName
	}
	if in.Dosage != nil {
		sc.Dosage = *in.Dosage
	}
	if in.Frequency != nil {
		// Cambiar frecuencia sin horarios => horarios por defecto de la nueva.
		if *in.Frequency != sc.Frequency && in.ReminderTimes == nil {
			sc.ReminderTimes = nil
		}
		sc.Frequency = *in.Frequency
	}
	if in.ReminderTimes != nil {
		sc.ReminderTimes = in.ReminderTimes
	}
	if in.StartDate != nil {
		sc.StartDate = *in.StartDate
	}
	if in.ClearEndDate {
		sc.EndDate = nil
	} else if in.EndDate != nil {
		sc.EndDate = in.EndDate
	}
	if in.Notes != nil {
		sc.Notes = *in.Notes
	}
	if in.IsActive != nil {
		sc.IsActive = *in.IsActive
	}

	if err := validate(&sc); err != nil {
		return Schedule{}, err
	}
	sc.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sc); err != nil {
		return Schedule{}, err
	}
	s.notifier.SchedulesChanged(ctx, userID)
	return sc, nil
}

// SetActive pausa (false) o reanuda (true).
func (s *Service) SetActive(ctx context.Context, userID, id string, active bool) (Schedule, error) {
	sc, err := s.Get(ctx, userID, id)
	if err != nil {
		return Schedule{}, err
	}
	if sc.IsActive == active {
		return sc, nil
	}

	sc.IsActive = active
	sc.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, sc); err != nil {
		return Schedule{}, err
	}
	s.notifier.SchedulesChanged(ctx, userID)
	return sc, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	sc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sc.ID); err != nil {
		return err
	}
	s.notifier.SchedulesChanged(ctx, userID)
	return nil
}
