package model

import (
	"fmt"
	"strings"
	"time"
)

type ClassOffering struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" yaml:"name"`
	Price       float64   `json:"price" bson:"price" yaml:"price"`
	Description string    `json:"description" bson:"description" yaml:"description"`
	Location    string    `json:"location" bson:"location" yaml:"location"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty" yaml:"image"`
	Seats       int       `json:"seats" bson:"seats" yaml:"seats"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" yaml:"-"`
}

// CreateClassRequest is the POST /api/classes payload. Price and Seats are
// pointers so that an omitted field fails "required" instead of reading as zero.
type CreateClassRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description string   `json:"description" validate:"required,min=1,max=500"`
	Location    string   `json:"location" validate:"required,min=2,max=100"`
	Image       string   `json:"image,omitempty" validate:"omitempty,max=255"`
	Seats       *int     `json:"seats" validate:"required,gte=0,max=10000"`
}

func (r *CreateClassRequest) ToClassOffering() *ClassOffering {
	class := &ClassOffering{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Image:       r.Image,
	}
	if r.Price != nil {
		class.Price = *r.Price
	}
	if r.Seats != nil {
		class.Seats = *r.Seats
	}
	return class
}

type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortNameAsc   SortOrder = "name_asc"
	SortNameDesc  SortOrder = "name_desc"
)

var sortOrders = []SortOrder{SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc}

func ParseSortOrder(raw string) (SortOrder, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return SortDefault, nil
	}
	for _, s := range sortOrders {
		if string(s) == raw {
			return s, nil
		}
	}
	return SortDefault, fmt.Errorf("unsupported sort %q", raw)
}

func SupportedSortOrders() []string {
	out := make([]string, len(sortOrders))
	for i, s := range sortOrders {
		out[i] = string(s)
	}
	return out
}

// SeatResponse is the body of the book and unbook endpoints.
type SeatResponse struct {
	Success bool   `json:"success"`
	Seats   *int   `json:"seats,omitempty"`
	Error   string `json:"error,omitempty"`
}
