package payment

import "fmt"

// ValidationError reports a client input problem, such as a missing or
// non-positive amount or absent contact fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown booking or transaction reference.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ConfigurationError reports a missing gateway credential. Gateway calls
// fail with it before any network I/O happens.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// GatewayUnavailableError reports a network-level failure talking to the
// provider: timeout, connection error, or a non-2xx HTTP status.
type GatewayUnavailableError struct {
	Err error
}

func (e *GatewayUnavailableError) Error() string {
	return "payment gateway unavailable: " + e.Err.Error()
}

func (e *GatewayUnavailableError) Unwrap() error { return e.Err }

// GatewayError reports a failed initiation or verification. Payload carries
// the raw provider response, when one was parsed, so operators can diagnose
// without re-contacting the provider.
type GatewayError struct {
	Message string
	Payload map[string]interface{}
}

func (e *GatewayError) Error() string { return e.Message }
