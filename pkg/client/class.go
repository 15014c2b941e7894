package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"schoolclasses/pkg/model"
)

const classesPath = "/api/classes"

type SeatResponse = model.SeatResponse

type ClassClient struct {
	httpClient *HttpClient
}

func NewClassClient(baseURL string) *ClassClient {
	return &ClassClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ClassClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *ClassClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, classesPath, body, nil)
}

func (c *ClassClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, classesPath, rawBody)
}

func (c *ClassClient) GetAll(ctx context.Context, sort model.SortOrder) (*Response, error) {
	path := classesPath
	if sort != model.SortDefault {
		path += "?sort=" + url.QueryEscape(string(sort))
	}
	return c.httpClient.GET(ctx, path)
}

func (c *ClassClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, classesPath+"/id/"+url.PathEscape(id))
}

func (c *ClassClient) Search(ctx context.Context, name string, sort model.SortOrder) (*Response, error) {
	q := url.Values{}
	q.Set("name", name)
	if sort != model.SortDefault {
		q.Set("sort", string(sort))
	}
	return c.httpClient.GET(ctx, classesPath+"/search?"+q.Encode())
}

func (c *ClassClient) Book(ctx context.Context, id string, idempotencyKey string) (*Response, error) {
	return c.seatAction(ctx, id, "book", idempotencyKey)
}

func (c *ClassClient) Unbook(ctx context.Context, id string, idempotencyKey string) (*Response, error) {
	return c.seatAction(ctx, id, "unbook", idempotencyKey)
}

func (c *ClassClient) seatAction(ctx context.Context, id, action, idempotencyKey string) (*Response, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyKeyHeader: idempotencyKey}
	}
	path := fmt.Sprintf("%s/%s/%s", classesPath, url.PathEscape(id), action)
	return c.httpClient.POST(ctx, path, nil, headers)
}

func (c *ClassClient) DecodeClass(resp *Response) (*model.ClassOffering, error) {
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	var class model.ClassOffering
	if err := resp.DecodeJSON(&class); err != nil {
		return nil, fmt.Errorf("failed to decode class: %w", err)
	}
	return &class, nil
}

func (c *ClassClient) DecodeClasses(resp *Response) ([]model.ClassOffering, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	var classes []model.ClassOffering
	if err := resp.DecodeJSON(&classes); err != nil {
		return nil, fmt.Errorf("failed to decode classes: %w", err)
	}
	return classes, nil
}

func (c *ClassClient) DecodeSeats(resp *Response) (*SeatResponse, error) {
	var seats SeatResponse
	if err := resp.DecodeJSON(&seats); err != nil {
		return nil, fmt.Errorf("failed to decode seat response: %w", err)
	}
	return &seats, nil
}
