package repository

import (
	"context"
	"errors"
	classeserrors "schoolclasses/internal/classes/errors"
	"schoolclasses/pkg/model"
	"sync"
	"sync/atomic"
	"testing"
)

func seedMemory(t *testing.T, classes ...*model.ClassOffering) ClassRepository {
	t.Helper()
	repo := NewMemoryClassRepository()
	if err := repo.CreateMany(context.Background(), classes); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return repo
}

func catalog() []*model.ClassOffering {
	return []*model.ClassOffering{
		{Name: "Java programming", Price: 15, Description: "Learn how to code with Java", Location: "Online", Seats: 30},
		{Name: "Artificial Intelligence", Price: 25, Description: "Learn more about AI", Location: "London Campus", Seats: 30},
		{Name: "Information in Organisations", Price: 10, Description: "Learn SQL and databases", Location: "Online", Seats: 30},
		{Name: "Blockchain Technology", Price: 35, Description: "Learn blockchain", Location: "Online", Seats: 30},
	}
}

func TestMemory_CreateAssignsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryClassRepository()
	class := &model.ClassOffering{Name: "Cloud Computing", Price: 22, Description: "Explore cloud tech", Location: "London Campus", Seats: 30}

	if err := repo.Create(context.Background(), class); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(class.ID) != 24 {
		t.Errorf("expected 24-char hex id, got %q", class.ID)
	}
	if class.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	found, err := repo.FindByID(context.Background(), class.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != class.Name {
		t.Errorf("expected %q, got %q", class.Name, found.Name)
	}
}

func TestMemory_FindByIDErrors(t *testing.T) {
	repo := seedMemory(t, catalog()...)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"invalid id", "not-an-id", classeserrors.ErrInvalidID},
		{"unknown id", "507f1f77bcf86cd799439011", classeserrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.FindByID(context.Background(), tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMemory_Search(t *testing.T) {
	repo := seedMemory(t, catalog()...)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{"empty returns all", "", []string{"Java programming", "Artificial Intelligence", "Information in Organisations", "Blockchain Technology"}},
		{"java matches only java", "java", []string{"Java programming"}},
		{"case insensitive", "JAVA", []string{"Java programming"}},
		{"matches description", "sql", []string{"Information in Organisations"}},
		{"regex characters are literal", "a.*", nil},
		{"no match", "underwater basket weaving", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.query, model.SortDefault)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("search must return an empty slice, not nil")
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("expected %d results, got %d", len(tt.wantNames), len(got))
			}
			for i, name := range tt.wantNames {
				if got[i].Name != name {
					t.Errorf("result %d: expected %q, got %q", i, name, got[i].Name)
				}
			}
		})
	}
}

func TestMemory_FindAllSorted(t *testing.T) {
	repo := seedMemory(t, catalog()...)

	tests := []struct {
		sort      model.SortOrder
		wantFirst string
		wantLast  string
	}{
		{model.SortPriceAsc, "Information in Organisations", "Blockchain Technology"},
		{model.SortPriceDesc, "Blockchain Technology", "Information in Organisations"},
		{model.SortNameAsc, "Artificial Intelligence", "Java programming"},
		{model.SortNameDesc, "Java programming", "Artificial Intelligence"},
		{model.SortDefault, "Java programming", "Blockchain Technology"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got, err := repo.FindAll(context.Background(), tt.sort)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got[0].Name != tt.wantFirst || got[len(got)-1].Name != tt.wantLast {
				t.Errorf("unexpected order: first=%q last=%q", got[0].Name, got[len(got)-1].Name)
			}
		})
	}
}

func TestMemory_DecrementSeats(t *testing.T) {
	ctx := context.Background()
	class := &model.ClassOffering{Name: "UI/UX Design", Price: 12, Description: "Learn UI/UX design", Location: "London Campus", Seats: 2}
	repo := seedMemory(t, class)

	for _, want := range []int{1, 0} {
		updated, err := repo.DecrementSeats(ctx, class.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Seats != want {
			t.Errorf("expected %d seats, got %d", want, updated.Seats)
		}
	}

	if _, err := repo.DecrementSeats(ctx, class.ID); !errors.Is(err, classeserrors.ErrNoSeatsAvailable) {
		t.Fatalf("expected ErrNoSeatsAvailable, got %v", err)
	}
	found, _ := repo.FindByID(ctx, class.ID)
	if found.Seats != 0 {
		t.Errorf("failed booking must leave seats unchanged, got %d", found.Seats)
	}

	if _, err := repo.DecrementSeats(ctx, "507f1f77bcf86cd799439011"); !errors.Is(err, classeserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.DecrementSeats(ctx, "bad"); !errors.Is(err, classeserrors.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestMemory_IncrementSeatsHasNoUpperBound(t *testing.T) {
	ctx := context.Background()
	class := &model.ClassOffering{Name: "Web Development", Price: 30, Description: "Build modern websites", Location: "London Campus", Seats: 30}
	repo := seedMemory(t, class)

	for want := 31; want <= 33; want++ {
		updated, err := repo.IncrementSeats(ctx, class.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Seats != want {
			t.Errorf("expected %d seats, got %d", want, updated.Seats)
		}
	}

	if _, err := repo.IncrementSeats(ctx, "507f1f77bcf86cd799439011"); !errors.Is(err, classeserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_ConcurrentBookingSingleSeat(t *testing.T) {
	ctx := context.Background()
	class := &model.ClassOffering{Name: "Cybersecurity Fundamentals", Price: 18, Description: "Protect systems and data", Location: "Online", Seats: 1}
	repo := seedMemory(t, class)

	const workers = 50
	var succeeded, noSeats int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.DecrementSeats(ctx, class.ID)
			switch {
			case err == nil:
				atomic.AddInt64(&succeeded, 1)
			case errors.Is(err, classeserrors.ErrNoSeatsAvailable):
				atomic.AddInt64(&noSeats, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly one successful booking, got %d", succeeded)
	}
	if noSeats != workers-1 {
		t.Errorf("expected %d rejected bookings, got %d", workers-1, noSeats)
	}
	found, _ := repo.FindByID(ctx, class.ID)
	if found.Seats != 0 {
		t.Errorf("expected 0 seats, got %d", found.Seats)
	}
}

func TestMemory_SeatsNeverNegativeUnderMixedLoad(t *testing.T) {
	ctx := context.Background()
	class := &model.ClassOffering{Name: "Mobile App Development", Price: 28, Description: "Build Android/iOS apps", Location: "London Campus", Seats: 5}
	repo := seedMemory(t, class)

	var booked, released int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				if _, err := repo.IncrementSeats(ctx, class.ID); err == nil {
					atomic.AddInt64(&released, 1)
				}
				return
			}
			updated, err := repo.DecrementSeats(ctx, class.ID)
			if err == nil {
				atomic.AddInt64(&booked, 1)
				if updated.Seats < 0 {
					t.Errorf("seats went negative: %d", updated.Seats)
				}
			}
		}(i)
	}
	wg.Wait()

	found, _ := repo.FindByID(ctx, class.ID)
	if found.Seats < 0 {
		t.Fatalf("seats went negative: %d", found.Seats)
	}
	if want := int64(5) + released - booked; int64(found.Seats) != want {
		t.Errorf("expected %d seats (5 + %d released - %d booked), got %d", want, released, booked, found.Seats)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	class := &model.ClassOffering{Name: "Cloud Computing", Price: 22, Description: "Explore cloud tech", Location: "London Campus", Seats: 30}
	repo := seedMemory(t, class)

	found, _ := repo.FindByID(ctx, class.ID)
	found.Seats = -100

	again, _ := repo.FindByID(ctx, class.ID)
	if again.Seats != 30 {
		t.Errorf("mutating a returned record must not change the store, got %d", again.Seats)
	}
}
