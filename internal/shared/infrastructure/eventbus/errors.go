package eventbus

import "errors"

var (
	// ErrPublisherClosed is returned when publishing on a closed connection.
	ErrPublisherClosed = errors.New("publisher connection closed")
	// ErrBrokerUnavailable is returned while the circuit breaker is open.
	ErrBrokerUnavailable = errors.New("event broker unavailable")
)
