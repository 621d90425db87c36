package worker

import "math"

// MaxBackoffSeconds caps the retry delay at the SQS visibility limit we use.
const MaxBackoffSeconds = 3600

// CalculateBackoff returns the visibility delay in seconds before retry
// number retryCount, doubling from 10s up to one hour.
func CalculateBackoff(retryCount int) int32 {
	if retryCount < 0 {
		retryCount = 0
	}
	backoff := math.Pow(2, float64(retryCount)) * 10
	if backoff > MaxBackoffSeconds {
		return MaxBackoffSeconds
	}
	return int32(backoff)
}
