package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"jobwatch-engine/internal/events"
	"jobwatch-engine/internal/monitor"
)

type MonitorHandler struct {
	Monitor Monitor
	Logger  *log.Logger
}

func (h MonitorHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Monitor.Status())
}

// Run starts a cycle in the background and returns at once. The cycle
// outlives the request; its events carry the request id.
func (h MonitorHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Monitor.Status().Running {
		WriteError(w, r, http.StatusConflict, "cycle_running", monitor.ErrCycleRunning.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	go func() {
		ctx := events.WithRequestID(context.Background(), reqID)
		rep, err := h.Monitor.RunCycle(ctx)
		switch {
		case errors.Is(err, monitor.ErrCycleRunning):
			h.Logger.Printf("[monitor] request_id=%s skipped: cycle already running", reqID)
		case err != nil:
			h.Logger.Printf("[monitor] request_id=%s cycle failed: %v", reqID, err)
		default:
			h.Logger.Printf("[monitor] request_id=%s cycle done report_id=%s", reqID, rep.ReportID)
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "request_id": reqID})
}

func (h MonitorHandler) CompanyAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(r.URL.Path, "/companies/", "/analytics")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /companies/{id}/analytics")
		return
	}
	a, err := h.Monitor.AnalyzeCompany(r.Context(), id)
	if errors.Is(err, monitor.ErrNoJobs) {
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "analysis_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, a)
}

func (h MonitorHandler) JobSources(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(r.URL.Path, "/jobs/", "/sources")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /jobs/{id}/sources")
		return
	}
	rec, err := h.Monitor.ReconcileJob(r.Context(), id)
	if isNotFound(err) {
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reconcile_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}
