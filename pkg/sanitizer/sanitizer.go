package sanitizer

import "schoolclasses/pkg/model"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// SanitizeCreateRequest normalizes every free-text field and the price in place.
func SanitizeCreateRequest(req *model.CreateClassRequest) {
	if req == nil {
		return
	}
	req.Name = NormalizeName(req.Name)
	req.Description = NormalizeDescription(req.Description)
	req.Location = NormalizeLocation(req.Location)
	req.Image = NormalizeImage(req.Image)
	if req.Price != nil {
		price := NormalizePrice(*req.Price)
		req.Price = &price
	}
}
