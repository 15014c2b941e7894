//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	classeserrors "schoolclasses/internal/classes/errors"
	"schoolclasses/pkg/client"
	"schoolclasses/pkg/config"
	"schoolclasses/pkg/logger"
	"schoolclasses/pkg/model"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func newMongoRepo(t *testing.T) ClassRepository {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = config.DefaultMongoURI
	}

	cfg := &config.Config{
		MongoURI:          uri,
		MongoDatabaseName: "Schoolclasses_repository_test",
		MongoConnTimeout:  10 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}
	cfg.SetMongo()

	repo := NewMongoClassRepository(cfg).(*mongoClassRepository)
	if _, err := repo.collection.DeleteMany(context.Background(), bson.M{}); err != nil {
		t.Fatalf("failed to clean collection: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.collection.Drop(context.Background())
		cfg.GracefulShutdown()
	})
	return repo
}

func TestMongo_BookAndUnbook(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	class := &model.ClassOffering{Name: "UI/UX Design", Price: 12, Description: "Learn UI/UX design", Location: "London Campus", Seats: 1}
	if err := repo.Create(ctx, class); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	booked, err := repo.DecrementSeats(ctx, class.ID)
	if err != nil || booked.Seats != 0 {
		t.Fatalf("expected 0 seats after booking, got %+v err=%v", booked, err)
	}

	if _, err := repo.DecrementSeats(ctx, class.ID); !errors.Is(err, classeserrors.ErrNoSeatsAvailable) {
		t.Fatalf("expected ErrNoSeatsAvailable, got %v", err)
	}

	released, err := repo.IncrementSeats(ctx, class.ID)
	if err != nil || released.Seats != 1 {
		t.Fatalf("expected 1 seat after unbooking, got %+v err=%v", released, err)
	}

	if _, err := repo.DecrementSeats(ctx, "507f1f77bcf86cd799439011"); !errors.Is(err, classeserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.IncrementSeats(ctx, "nope"); !errors.Is(err, classeserrors.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestMongo_ConcurrentBookingSingleSeat(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	class := &model.ClassOffering{Name: "Cybersecurity Fundamentals", Price: 18, Description: "Protect systems and data", Location: "Online", Seats: 1}
	if err := repo.Create(ctx, class); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var succeeded int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.DecrementSeats(ctx, class.ID); err == nil {
				atomic.AddInt64(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly one successful booking, got %d", succeeded)
	}
	found, err := repo.FindByID(ctx, class.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Seats != 0 {
		t.Errorf("expected 0 seats, got %d", found.Seats)
	}
}

func TestMongo_SearchIsLiteralAndCaseInsensitive(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	classes := []*model.ClassOffering{
		{Name: "Java programming", Price: 15, Description: "Learn how to code with Java", Location: "Online", Seats: 30},
		{Name: "Artificial Intelligence", Price: 25, Description: "Learn more about AI", Location: "London Campus", Seats: 30},
		{Name: "UI/UX Design", Price: 12, Description: "Learn UI/UX design", Location: "London Campus", Seats: 30},
	}
	if err := repo.CreateMany(ctx, classes); err != nil {
		t.Fatalf("create many failed: %v", err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"JAVA", 1},
		{"ui/ux", 1},
		{".*", 0},
		{"learn", 3},
	}
	for _, tt := range tests {
		got, err := repo.Search(ctx, tt.query, model.SortPriceAsc)
		if err != nil {
			t.Fatalf("search %q failed: %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("search %q: expected %d results, got %d", tt.query, tt.want, len(got))
		}
	}
}
