package llm

import (
	"errors"
	"fmt"
)

// ServiceCause classifies why an AI request failed.
type ServiceCause string

const (
	CauseRateLimited        ServiceCause = "rate_limited"
	CauseAuthFailed         ServiceCause = "auth_failed"
	CauseBadRequest         ServiceCause = "bad_request"
	CauseUnparseable        ServiceCause = "unparseable_response"
	CauseInvalidResultShape ServiceCause = "invalid_result_shape"
	CauseTransient          ServiceCause = "transient"
)

// ConfigError means the AI provider cannot be called at all (no API key, no
// model configured). Handlers treat this as a service-level outage (503)
// rather than falling back, since the condition will not heal per-request.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ai not configured: %s", e.Reason)
}

// ServiceError is a per-request AI failure. Handlers substitute the rule-based
// fallback scorer for these.
type ServiceError struct {
	Cause ServiceCause
	Err   error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai request failed (%s): %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("ai request failed (%s)", e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is a configuration-level AI failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// AsServiceError unwraps err into a *ServiceError if possible.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	ok := errors.As(err, &se)
	return se, ok
}
