package repository

import (
	"context"
	"schoolclasses/internal/classes/errors"
	"schoolclasses/pkg/model"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryClassRepository keeps the catalog in process. One mutex guards both
// the seat check and the decrement, which gives the same guarantee as the
// conditional update in the Mongo backend.
type memoryClassRepository struct {
	mu      sync.RWMutex
	order   []string
	classes map[string]*model.ClassOffering
	now     func() time.Time
}

func NewMemoryClassRepository() ClassRepository {
	return &memoryClassRepository{
		classes: make(map[string]*model.ClassOffering),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (r *memoryClassRepository) Create(_ context.Context, class *model.ClassOffering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insertLocked(class, r.now())
	return nil
}

func (r *memoryClassRepository) CreateMany(_ context.Context, classes []*model.ClassOffering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for _, class := range classes {
		r.insertLocked(class, now)
	}
	return nil
}

func (r *memoryClassRepository) insertLocked(class *model.ClassOffering, createdAt time.Time) {
	class.ID = primitive.NewObjectID().Hex()
	class.CreatedAt = createdAt

	stored := *class
	r.classes[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
}

func (r *memoryClassRepository) FindByID(_ context.Context, id string) (*model.ClassOffering, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	class, ok := r.classes[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *class
	return &copied, nil
}

func (r *memoryClassRepository) FindAll(ctx context.Context, order model.SortOrder) ([]*model.ClassOffering, error) {
	return r.Search(ctx, "", order)
}

func (r *memoryClassRepository) Search(_ context.Context, query string, order model.SortOrder) ([]*model.ClassOffering, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	out := []*model.ClassOffering{}
	for _, id := range r.order {
		class := r.classes[id]
		if needle != "" &&
			!strings.Contains(strings.ToLower(class.Name), needle) &&
			!strings.Contains(strings.ToLower(class.Description), needle) {
			continue
		}
		copied := *class
		out = append(out, &copied)
	}
	r.mu.RUnlock()

	sortClasses(out, order)
	return out, nil
}

func sortClasses(classes []*model.ClassOffering, order model.SortOrder) {
	var less func(a, b *model.ClassOffering) bool
	switch order {
	case model.SortPriceAsc:
		less = func(a, b *model.ClassOffering) bool { return a.Price < b.Price }
	case model.SortPriceDesc:
		less = func(a, b *model.ClassOffering) bool { return a.Price > b.Price }
	case model.SortNameAsc:
		less = func(a, b *model.ClassOffering) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case model.SortNameDesc:
		less = func(a, b *model.ClassOffering) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		return
	}
	sort.SliceStable(classes, func(i, j int) bool { return less(classes[i], classes[j]) })
}

func (r *memoryClassRepository) DecrementSeats(_ context.Context, id string) (*model.ClassOffering, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	class, ok := r.classes[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	if class.Seats <= 0 {
		return nil, errors.ErrNoSeatsAvailable
	}
	class.Seats--

	copied := *class
	return &copied, nil
}

func (r *memoryClassRepository) IncrementSeats(_ context.Context, id string) (*model.ClassOffering, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	class, ok := r.classes[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	class.Seats++

	copied := *class
	return &copied, nil
}

func (r *memoryClassRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.classes)), nil
}

func (r *memoryClassRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
