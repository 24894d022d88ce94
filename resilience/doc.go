// Package resilience wraps outbound API calls with a retry policy and a
// circuit breaker. The retry executor applies exponential backoff with
// jitter and classifies failures as retryable or terminal; the breaker
// guards the remote service with closed/open/half-open transitions; the
// executor composes the two so that breaker accounting is driven by the
// outcome of a full retry sequence, not by individual attempts.
package resilience
