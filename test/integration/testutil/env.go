//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"schoolclasses/pkg/client"
	"schoolclasses/pkg/model"
)

const DefaultServerURL = "http://localhost:8080"

func ServerURL() string {
	if url := os.Getenv("TEST_SERVER_URL"); url != "" {
		return url
	}
	return DefaultServerURL
}

// NewClassClient returns a client for the running service, failing the test
// when /health does not answer in time.
func NewClassClient(t *testing.T) *client.ClassClient {
	t.Helper()

	c := client.NewClassClient(ServerURL())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.HTTP().WaitForHealthy(ctx, 30*time.Second); err != nil {
		t.Fatalf("service at %s is not healthy: %v", ServerURL(), err)
	}
	return c
}

// NewClassRequest returns a valid create body with a unique name.
func NewClassRequest(seats int) map[string]any {
	return map[string]any{
		"name":        fmt.Sprintf("Integration %s", uuid.NewString()[:8]),
		"price":       19.5,
		"description": "Created by the integration suite",
		"location":    "Online",
		"image":       "Images/Integration.jpg",
		"seats":       seats,
	}
}

// CreateClass creates a class and removes it when the test ends.
func CreateClass(t *testing.T, c *client.ClassClient, m *MongoHelper, seats int) *model.ClassOffering {
	t.Helper()

	resp, err := c.Create(context.Background(), NewClassRequest(seats))
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	AssertStatusCode(t, resp, http.StatusCreated)

	class, err := c.DecodeClass(resp)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.DeleteClass(t, class.ID) })
	return class
}

func AssertStatusCode(t *testing.T, resp *client.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, client.GetErrorMessage(resp))
	}
}
