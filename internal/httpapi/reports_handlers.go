package httpapi

import (
	"errors"
	"net/http"

	"jobwatch-engine/internal/store"
)

const maxReportsPage = 200

type ReportsHandler struct {
	Reports ReportStore
}

func (h ReportsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.LatestReport(r.Context())
	if isNotFound(err) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no monitoring report yet")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}

func (h ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 30)
	if err != nil || limit <= 0 || limit > maxReportsPage {
		WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be 1..200")
		return
	}
	reps, err := h.Reports.ListReports(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, reps)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
