package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"timesheet.service/internal/api/handler"
	"timesheet.service/pkg/logger"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service handler.EntryService) *mux.Router {
	entryHandler := handler.EntryHandler{
		Service: service,
	}

	r := mux.NewRouter()
	r.Use(contextLogger)

	// Only XHR submissions from the calendar page reach the form endpoint;
	// anything else gets mux's 404.
	r.HandleFunc("/ajax/", entryHandler.Ajax).
		Methods(http.MethodPost).
		Headers("X-Requested-With", "XMLHttpRequest")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/duration", handler.Duration).Methods(http.MethodPost)
	api.HandleFunc("/daytypes", handler.DayTypes).Methods(http.MethodGet)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}

func contextLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.EnrichContextWithLogger(r.Context())
		ctx = logger.WithEmployee(ctx, r.Header.Get(handler.EmployeeHeader))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
