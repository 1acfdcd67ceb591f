package httpapi

import (
	"log"
	"net/http"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{Hub: d.Hub}.Health,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Monitoring
	mh := MonitorHandler{Monitor: d.Monitor, Logger: d.Logger}
	mux.HandleFunc("/monitor/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.Run,
	}))
	mux.HandleFunc("/monitor/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Status,
	}))
	mux.HandleFunc("/companies/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.CompanyAnalytics, // expects /companies/{id}/analytics
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.JobSources, // expects /jobs/{id}/sources
	}))

	// Reports
	rh := ReportsHandler{Reports: d.Reports}
	mux.HandleFunc("/reports", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.List,
	}))
	mux.HandleFunc("/reports/latest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Latest,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// Handler wraps mux in the standard middleware stack.
func Handler(mux http.Handler, logger *log.Logger) http.Handler {
	return Chain(mux, RequestID, Recover(logger), AccessLog(logger), Cors)
}
