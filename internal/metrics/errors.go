package metrics

import "strconv"

// RecordError records an error envelope with code and status
func RecordError(errorCode string, httpStatus int) {
	c := get()
	if c == nil {
		return
	}
	c.errorsTotal.WithLabelValues(errorCode, strconv.Itoa(httpStatus)).Inc()
}

// RecordPanic records a panic recovery
func RecordPanic() {
	c := get()
	if c == nil {
		return
	}
	c.panicsTotal.Inc()
}

// RecordErrorByEndpoint records an error by endpoint
func RecordErrorByEndpoint(endpoint string, errorCode string) {
	c := get()
	if c == nil {
		return
	}
	c.errorsByEndpoint.WithLabelValues(endpoint, errorCode).Inc()
}
