// Package provider holds the pieces shared by the external data clients:
// error classification into *models.Unavailable and call instrumentation.
package provider

import (
	"context"
	"errors"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

const OutcomeOK = "ok"

// Classify maps a transport error onto the provider failure taxonomy.
func Classify(name string, err error) *models.Unavailable {
	if err == nil {
		return nil
	}
	var u *models.Unavailable
	if errors.As(err, &u) {
		return u
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return models.ProviderStatus(name, se.Code)
	}
	if errors.Is(err, xhttp.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return &models.Unavailable{Provider: name, Reason: models.ReasonTimeout, Detail: err.Error()}
	}
	return models.ProviderFailure(name, err)
}

// Observer records one call per Done.
type Observer struct {
	Name    string
	Metrics domrepo.Metrics
	Logger  *applogger.Logger
}

// Done records the outcome of a call started at start and returns err
// classified. A nil error is recorded as ok.
func (o Observer) Done(start time.Time, err error, fields ...applogger.Field) error {
	elapsed := time.Since(start)
	outcome := OutcomeOK
	var u *models.Unavailable
	if err != nil {
		u = Classify(o.Name, err)
		outcome = string(u.Reason)
	}
	if o.Metrics != nil {
		o.Metrics.RecordProviderCall(o.Name, outcome, elapsed.Seconds())
	}
	if o.Logger != nil {
		fields = append(fields,
			applogger.String("provider", o.Name),
			applogger.String("outcome", outcome),
			applogger.Duration("latency_ms", elapsed),
		)
		if u != nil {
			o.Logger.Warn("provider call degraded", append(fields, applogger.String("detail", u.Error()))...)
		} else {
			o.Logger.Debug("provider call", fields...)
		}
	}
	if u == nil {
		return nil
	}
	return u
}
