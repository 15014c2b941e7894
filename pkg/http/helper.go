package http

import (
	"net/http"
	apperrors "schoolclasses/pkg/errors"
	"schoolclasses/pkg/model"
	"strings"
)

const (
	QuerySort = "sort"
	QueryName = "name"
)

func ExtractSort(r *http.Request) (model.SortOrder, error) {
	raw := r.URL.Query().Get(QuerySort)
	sort, err := model.ParseSortOrder(raw)
	if err != nil {
		return model.SortDefault, apperrors.InvalidInput("invalid sort parameter: " + raw).
			WithDetails(map[string]any{"supported": model.SupportedSortOrders()})
	}
	return sort, nil
}

func ExtractQuery(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
