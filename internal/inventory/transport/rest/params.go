package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/avdmitry/inventory-service/internal/inventory/apperr"
	"github.com/avdmitry/inventory-service/internal/inventory/filter"
	"github.com/avdmitry/inventory-service/internal/inventory/paging"
)

// parseID reads the required id query parameter.
func parseID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("Invalid id parameter: %q", raw))
	}
	return id, nil
}

// parsePaging reads pageNumber and pageSize. Both keys must be present;
// non-numeric values are rejected here, non-positive ones by Params.Validate.
func parsePaging(q url.Values) (paging.Params, error) {
	if !q.Has("pageNumber") || !q.Has("pageSize") {
		return paging.Params{}, apperr.Validation(apperr.MsgNullParameter)
	}
	number, err := strconv.Atoi(q.Get("pageNumber"))
	if err != nil {
		return paging.Params{}, apperr.Validation(apperr.MsgInvalidPaging)
	}
	size, err := strconv.Atoi(q.Get("pageSize"))
	if err != nil {
		return paging.Params{}, apperr.Validation(apperr.MsgInvalidPaging)
	}
	return paging.Params{PageNumber: number, PageSize: size}, nil
}

// parseFilter builds the filter from the query. Key presence decides whether
// a field is set, so name= with an empty value is a present constraint.
func parseFilter(q url.Values) (filter.Filter, error) {
	var f filter.Filter
	if q.Has("name") {
		name := q.Get("name")
		f.Name = &name
	}
	if q.Has("brand") {
		brand := q.Get("brand")
		f.Brand = &brand
	}
	if q.Has("minPrice") {
		minPrice, err := decimal.NewFromString(q.Get("minPrice"))
		if err != nil {
			return filter.Filter{}, apperr.Validation(fmt.Sprintf("Invalid minPrice parameter: %q", q.Get("minPrice")))
		}
		f.MinPrice = &minPrice
	}
	if q.Has("maxPrice") {
		maxPrice, err := decimal.NewFromString(q.Get("maxPrice"))
		if err != nil {
			return filter.Filter{}, apperr.Validation(fmt.Sprintf("Invalid maxPrice parameter: %q", q.Get("maxPrice")))
		}
		f.MaxPrice = &maxPrice
	}
	return f, nil
}
