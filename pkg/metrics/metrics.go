package metrics

import (
	"fmt"
	"sync"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	mu sync.RWMutex

	// Call metrics
	TotalCalls      int64
	CompletedCalls  int64
	FailedCalls     int64
	TransferredCalls int64
	ActiveCalls     int64

	// Endpoint metrics
	EndpointRequests map[string]int64
	EndpointErrors   map[string]int64
	EndpointLatency  map[string][]time.Duration

	// Service metrics (STT, LLM, TTS, telephony)
	ServiceCalls   map[string]int64
	ServiceErrors  map[string]int64
	ServiceLatency map[string][]time.Duration

	// Circuit breaker metrics
	CircuitBreakerState    map[string]string
	CircuitBreakerFailures map[string]int64

	// Start time
	StartTime time.Time
}

var globalMetrics = &Metrics{
	EndpointRequests:       make(map[string]int64),
	EndpointErrors:         make(map[string]int64),
	EndpointLatency:        make(map[string][]time.Duration),
	ServiceCalls:           make(map[string]int64),
	ServiceErrors:          make(map[string]int64),
	ServiceLatency:         make(map[string][]time.Duration),
	CircuitBreakerState:    make(map[string]string),
	CircuitBreakerFailures: make(map[string]int64),
	StartTime:              time.Now(),
}

// RecordRequest records an API request
func RecordRequest(endpoint string, success bool, latency time.Duration) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	if !success {
		globalMetrics.EndpointErrors[endpoint]++
	}

	globalMetrics.EndpointRequests[endpoint]++

	// Keep only last 100 latency measurements per endpoint
	if len(globalMetrics.EndpointLatency[endpoint]) >= 100 {
		globalMetrics.EndpointLatency[endpoint] = globalMetrics.EndpointLatency[endpoint][1:]
	}
	globalMetrics.EndpointLatency[endpoint] = append(globalMetrics.EndpointLatency[endpoint], latency)
}

// CallStarted records the start of a call session
func CallStarted() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	globalMetrics.TotalCalls++
	globalMetrics.ActiveCalls++
}

// CallEnded records the end of a call session
func CallEnded(outcome string) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	if globalMetrics.ActiveCalls > 0 {
		globalMetrics.ActiveCalls--
	}

	switch outcome {
	case "completed":
		globalMetrics.CompletedCalls++
	case "transferred":
		globalMetrics.TransferredCalls++
	default:
		globalMetrics.FailedCalls++
	}
}

// RecordServiceCall records a call to an external service
func RecordServiceCall(service string, success bool, latency time.Duration) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	globalMetrics.ServiceCalls[service]++
	if !success {
		globalMetrics.ServiceErrors[service]++
	}

	// Keep only last 100 latency measurements per service
	if len(globalMetrics.ServiceLatency[service]) >= 100 {
		globalMetrics.ServiceLatency[service] = globalMetrics.ServiceLatency[service][1:]
	}
	globalMetrics.ServiceLatency[service] = append(globalMetrics.ServiceLatency[service], latency)
}

// UpdateCircuitBreaker updates circuit breaker metrics
func UpdateCircuitBreaker(service, state string, failures int64) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	globalMetrics.CircuitBreakerState[service] = state
	globalMetrics.CircuitBreakerFailures[service] = failures
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	endpointAvgLatency := make(map[string]float64)
	for endpoint, latencies := range globalMetrics.EndpointLatency {
		if len(latencies) > 0 {
			var sum time.Duration
			for _, l := range latencies {
				sum += l
			}
			endpointAvgLatency[endpoint] = sum.Seconds() / float64(len(latencies))
		}
	}

	serviceAvgLatency := make(map[string]float64)
	for service, latencies := range globalMetrics.ServiceLatency {
		if len(latencies) > 0 {
			var sum time.Duration
			for _, l := range latencies {
				sum += l
			}
			serviceAvgLatency[service] = sum.Seconds() / float64(len(latencies))
		}
	}

	uptime := time.Since(globalMetrics.StartTime)

	return map[string]interface{}{
		"uptime_seconds": uptime.Seconds(),
		"calls": map[string]interface{}{
			"total":       globalMetrics.TotalCalls,
			"active":      globalMetrics.ActiveCalls,
			"completed":   globalMetrics.CompletedCalls,
			"transferred": globalMetrics.TransferredCalls,
			"failed":      globalMetrics.FailedCalls,
		},
		"endpoints": map[string]interface{}{
			"requests":            globalMetrics.EndpointRequests,
			"errors":              globalMetrics.EndpointErrors,
			"latency_avg_seconds": endpointAvgLatency,
		},
		"services": map[string]interface{}{
			"calls":               globalMetrics.ServiceCalls,
			"errors":              globalMetrics.ServiceErrors,
			"latency_avg_seconds": serviceAvgLatency,
		},
		"circuit_breakers": map[string]interface{}{
			"state":    globalMetrics.CircuitBreakerState,
			"failures": globalMetrics.CircuitBreakerFailures,
		},
	}
}

// GetPrometheusMetrics returns metrics in Prometheus format
func GetPrometheusMetrics() string {
	metrics := GetMetrics()
	var output string

	// Uptime
	output += "# HELP agent_uptime_seconds Agent uptime in seconds\n"
	output += "# TYPE agent_uptime_seconds gauge\n"
	output += fmt.Sprintf("agent_uptime_seconds %.2f\n", metrics["uptime_seconds"].(float64))

	// Calls
	calls := metrics["calls"].(map[string]interface{})
	output += "# HELP agent_calls_total Total number of calls\n"
	output += "# TYPE agent_calls_total counter\n"
	output += fmt.Sprintf("agent_calls_total{outcome=\"completed\"} %d\n", calls["completed"].(int64))
	output += fmt.Sprintf("agent_calls_total{outcome=\"transferred\"} %d\n", calls["transferred"].(int64))
	output += fmt.Sprintf("agent_calls_total{outcome=\"failed\"} %d\n", calls["failed"].(int64))

	output += "# HELP agent_active_calls Currently active calls\n"
	output += "# TYPE agent_active_calls gauge\n"
	output += fmt.Sprintf("agent_active_calls %d\n", calls["active"].(int64))

	// Endpoint requests
	endpoints := metrics["endpoints"].(map[string]interface{})
	endpointReqs := endpoints["requests"].(map[string]int64)
	output += "# HELP agent_endpoint_requests_total Total requests per endpoint\n"
	output += "# TYPE agent_endpoint_requests_total counter\n"
	for endpoint, count := range endpointReqs {
		output += fmt.Sprintf("agent_endpoint_requests_total{endpoint=\"%s\"} %d\n", endpoint, count)
	}

	// Endpoint errors
	endpointErrs := endpoints["errors"].(map[string]int64)
	output += "# HELP agent_endpoint_errors_total Total errors per endpoint\n"
	output += "# TYPE agent_endpoint_errors_total counter\n"
	for endpoint, count := range endpointErrs {
		output += fmt.Sprintf("agent_endpoint_errors_total{endpoint=\"%s\"} %d\n", endpoint, count)
	}

	// Service calls
	services := metrics["services"].(map[string]interface{})
	serviceCalls := services["calls"].(map[string]int64)
	output += "# HELP agent_service_calls_total Total calls per external service\n"
	output += "# TYPE agent_service_calls_total counter\n"
	for service, count := range serviceCalls {
		output += fmt.Sprintf("agent_service_calls_total{service=\"%s\"} %d\n", service, count)
	}

	return output
}
