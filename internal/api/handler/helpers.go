package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// parsePagination reads the page/page_size query parameters as-is; the
// service layer owns clamping, so the rule lives in one place.
func parsePagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}

func urlParamInt(r *http.Request, key string) (int, bool) {
	value, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}
