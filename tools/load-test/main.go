package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type addForm struct {
	FormType  string `json:"form_type"`
	ID        int64  `json:"id,omitempty"`
	EntryDate string `json:"entry_date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Breaks    string `json:"breaks,omitempty"`
	DayType   string `json:"daytype,omitempty"`
}

type savedEntry struct {
	Entry struct {
		ID       int64  `json:"id"`
		Approval string `json:"approval"`
	} `json:"entry"`
}

const approverID = "load-test-manager"

func post(client *http.Client, url, employeeID string, form addForm) (savedEntry, error) {
	var saved savedEntry
	payload, _ := json.Marshal(form)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return saved, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Employee-ID", employeeID)

	resp, err := client.Do(req)
	if err != nil {
		return saved, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return saved, fmt.Errorf("status %d", resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&saved)
	return saved, err
}

func main() {
	// Configuration
	url := "http://localhost:8080/ajax/"

	numEmployees := 5000
	daysPerEmployee := 2
	totalRequests := numEmployees * daysPerEmployee
	concurrency := 50 // Number of concurrent requests to avoid local port exhaustion
	firstDay := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	fmt.Printf("Starting load test: %d employees (%d entries each) to %s with concurrency %d\n", numEmployees, daysPerEmployee, url, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency) // Semaphore to limit concurrency

	var successCount int64
	var failCount int64

	client := &http.Client{Timeout: 10 * time.Second}
	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		employeeID := fmt.Sprintf("load-test-emp-%d", i)

		go func(empID string) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			for j := 0; j < daysPerEmployee; j++ {
				// Every other day runs long enough to need overtime approval.
				end := "17:30"
				if j%2 == 1 {
					end = "19:30"
				}
				saved, err := post(client, url, empID, addForm{
					FormType:  "add",
					EntryDate: firstDay.AddDate(0, 0, j).Format("2006-01-02"),
					StartTime: "09:00",
					EndTime:   end,
					Breaks:    "00:30",
					DayType:   "WKDAY",
				})
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}

				// Overtime is only queued once a manager approves it.
				if saved.Entry.Approval == "AWAITING" {
					if _, err := post(client, url, approverID, addForm{FormType: "approve_overtime", ID: saved.Entry.ID}); err != nil {
						atomic.AddInt64(&failCount, 1)
						continue
					}
				}
				atomic.AddInt64(&successCount, 1)
			}
		}(employeeID)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
