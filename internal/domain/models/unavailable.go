package models

import (
	"errors"
	"fmt"
)

// Reason classifies why a provider produced no usable data.
type Reason string

const (
	ReasonUnconfigured  Reason = "unconfigured"
	ReasonProviderError Reason = "provider_error"
	ReasonRateLimited   Reason = "rate_limited"
	ReasonEmpty         Reason = "empty"
	ReasonTimeout       Reason = "timeout"
)

// Unavailable is the only error a provider client returns. It is data, not a
// failure of the run: the assembler renders it into section text.
type Unavailable struct {
	Provider string
	Reason   Reason
	// Detail holds the credential name for ReasonUnconfigured and the
	// underlying error message otherwise.
	Detail string
	// Status is the upstream HTTP status, 0 when no response was read.
	Status int
}

func (u *Unavailable) Error() string {
	switch {
	case u.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", u.Provider, u.Reason, u.Status)
	case u.Detail != "":
		return fmt.Sprintf("%s: %s: %s", u.Provider, u.Reason, u.Detail)
	default:
		return fmt.Sprintf("%s: %s", u.Provider, u.Reason)
	}
}

// Unconfigured reports a provider whose credential is unset.
func Unconfigured(provider, credential string) *Unavailable {
	return &Unavailable{Provider: provider, Reason: ReasonUnconfigured, Detail: credential}
}

// ProviderFailure wraps a transport or decode failure.
func ProviderFailure(provider string, err error) *Unavailable {
	return &Unavailable{Provider: provider, Reason: ReasonProviderError, Detail: err.Error()}
}

// ProviderStatus reports a non-2xx response.
func ProviderStatus(provider string, status int) *Unavailable {
	return &Unavailable{Provider: provider, Reason: ReasonProviderError, Status: status}
}

// AsUnavailable extracts an *Unavailable from err. Any other error is
// reported as a provider error of the given provider.
func AsUnavailable(provider string, err error) *Unavailable {
	if err == nil {
		return nil
	}
	var u *Unavailable
	if errors.As(err, &u) {
		return u
	}
	return ProviderFailure(provider, err)
}

// IsReason reports whether err is an *Unavailable with the given reason.
func IsReason(err error, r Reason) bool {
	var u *Unavailable
	return errors.As(err, &u) && u.Reason == r
}
