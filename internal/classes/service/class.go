package service

import (
	"context"
	"errors"
	"schoolclasses/internal/classes/events"
	classeserrors "schoolclasses/internal/classes/errors"
	"schoolclasses/internal/classes/repository"
	"schoolclasses/internal/classes/validator"
	"schoolclasses/pkg/config"
	apperrors "schoolclasses/pkg/errors"
	"schoolclasses/pkg/model"
	"schoolclasses/pkg/sanitizer"
)

type ClassService interface {
	Create(ctx context.Context, req *model.CreateClassRequest) (*model.ClassOffering, error)
	GetAll(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error)
	GetByID(ctx context.Context, id string) (*model.ClassOffering, error)
	Search(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error)

	// Book takes one seat and returns the seats left.
	Book(ctx context.Context, id string) (int, error)
	// Unbook gives one seat back and returns the seats left.
	Unbook(ctx context.Context, id string) (int, error)

	// SeedIfEmpty inserts catalog when the store has no classes and reports
	// how many were inserted.
	SeedIfEmpty(ctx context.Context, catalog []*model.ClassOffering) (int, error)
}

type classService struct {
	repo      repository.ClassRepository
	validator *validator.ClassValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewClassService(
	repo repository.ClassRepository,
	validator *validator.ClassValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ClassService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &classService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *classService) Create(ctx context.Context, req *model.CreateClassRequest) (*model.ClassOffering, error) {
	sanitizer.SanitizeCreateRequest(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Class validation failed", "error", err)

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Missing or invalid fields", verrs.Details())
		}
		return nil, apperrors.Validation("Missing or invalid fields", map[string]any{
			"error": err.Error(),
		})
	}

	class := req.ToClassOffering()
	if err := s.repo.Create(ctx, class); err != nil {
		s.cfg.Log.Error("Failed to create class",
			"name", class.Name,
			"error", err,
		)
		return nil, apperrors.Internal("Error adding class", err)
	}

	s.cfg.Log.Info("Class created successfully",
		"id", class.ID,
		"name", class.Name,
		"seats", class.Seats,
	)
	s.publish(ctx, model.EventClassCreated, class)

	return class, nil
}

func (s *classService) GetAll(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error) {
	classes, err := s.repo.FindAll(ctx, sort)
	if err != nil {
		s.cfg.Log.Error("Failed to get all classes", "sort", sort, "error", err)
		return nil, apperrors.Internal("Failed to fetch classes", err)
	}
	return classes, nil
}

func (s *classService) GetByID(ctx context.Context, id string) (*model.ClassOffering, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Class ID cannot be empty")
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapSeatError(err, id, "Failed to retrieve class")
	}
	return class, nil
}

func (s *classService) Search(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error) {
	query = sanitizer.NormalizeSearchQuery(query)

	classes, err := s.repo.Search(ctx, query, sort)
	if err != nil {
		s.cfg.Log.Error("Failed to search classes",
			"query", query,
			"sort", sort,
			"error", err,
		)
		return nil, apperrors.Internal("Search failed", err)
	}

	s.cfg.Log.Debug("Class search completed", "query", query, "results", len(classes))
	return classes, nil
}

func (s *classService) Book(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, apperrors.InvalidInput("Class ID cannot be empty")
	}

	class, err := s.repo.DecrementSeats(ctx, id)
	if err != nil {
		if errors.Is(err, classeserrors.ErrNoSeatsAvailable) {
			s.cfg.Log.Info("Booking rejected, class is full", "id", id)
		}
		return 0, s.mapSeatError(err, id, "Booking failed")
	}

	s.cfg.Log.Info("Seat booked", "id", id, "seats_left", class.Seats)
	s.publish(ctx, model.EventSeatBooked, class)

	return class.Seats, nil
}

func (s *classService) Unbook(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, apperrors.InvalidInput("Class ID cannot be empty")
	}

	class, err := s.repo.IncrementSeats(ctx, id)
	if err != nil {
		return 0, s.mapSeatError(err, id, "Unbooking failed")
	}

	s.cfg.Log.Info("Seat released", "id", id, "seats_left", class.Seats)
	s.publish(ctx, model.EventSeatReleased, class)

	return class.Seats, nil
}

func (s *classService) SeedIfEmpty(ctx context.Context, catalog []*model.ClassOffering) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Internal("Failed to count classes", err)
	}
	if count > 0 {
		s.cfg.Log.Info("Catalog already populated, skipping seed", "count", count)
		return 0, nil
	}
	if len(catalog) == 0 {
		return 0, nil
	}

	if err := s.repo.CreateMany(ctx, catalog); err != nil {
		s.cfg.Log.Error("Failed to seed catalog", "error", err)
		return 0, apperrors.Internal("Failed to seed classes", err)
	}

	s.cfg.Log.Info("Catalog seeded", "count", len(catalog))
	return len(catalog), nil
}

func (s *classService) mapSeatError(err error, id, internalMessage string) error {
	switch {
	case errors.Is(err, classeserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid class ID format")
	case errors.Is(err, classeserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Class", id)
	case errors.Is(err, classeserrors.ErrNoSeatsAvailable):
		return apperrors.NoSeatsAvailable("No seats left")
	}

	s.cfg.Log.Error(internalMessage, "id", id, "error", err)
	return apperrors.Internal(internalMessage, err)
}

// publish sends a seat event once the change is committed. Failures are
// logged and never reach the caller.
func (s *classService) publish(ctx context.Context, eventType string, class *model.ClassOffering) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.EventPublishTimeout)
	defer cancel()

	event := events.NewSeatEvent(eventType, class)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish seat event",
			"event_id", event.ID,
			"event_type", eventType,
			"class_id", class.ID,
			"error", err,
		)
	}
}
