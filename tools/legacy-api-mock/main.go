package main

import (
	"encoding/json"
	"flag"
	"math/rand/v2"
	"net/http"

	"github.com/rs/zerolog/log"

	"timesheet.service/internal/ports/messaging"
	"timesheet.service/pkg/logger"
)

// failureRate makes the mock answer 503 to a share of requests so the
// worker's retry and circuit breaker paths can be observed locally.
var failureRate = flag.Float64("failure-rate", 0, "share of requests answered with 503 (0-1)")

func overtimeHandler(w http.ResponseWriter, r *http.Request) {
	var event messaging.OvertimeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if rand.Float64() < *failureRate {
		log.Warn().Int64("entry_id", event.EntryID).Msg("Simulating legacy outage")
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	log.Info().
		Str("employee_id", event.EmployeeID).
		Str("entry_date", event.EntryDate).
		Str("daytype", event.DayType).
		Str("duration", event.Duration).
		Float64("difference_hours", event.DifferenceHrs).
		Msg("Received overtime")
	w.WriteHeader(http.StatusOK)
}

func main() {
	flag.Parse()
	logger.Setup("info", true)

	http.HandleFunc("/", overtimeHandler)
	log.Info().Msg("Legacy API mock server starting on port 8081...")
	log.Fatal().Err(http.ListenAndServe(":8081", nil)).Msg("listen")
}
