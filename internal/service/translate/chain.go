// Package translate turns English headlines into Spanish through a chain of
// free translation services, keeping the source text when none succeeds.
package translate

import (
	"context"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/cache"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

const (
	SourceLang = "en"
	TargetLang = "es"

	// MaxInput bounds the text sent to a service, in characters.
	MaxInput = 450

	cachePrefix = "translation"
)

// Tier is one translation service.
type Tier interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// accept treats an empty or echoed result as a failed translation.
func accept(name, in, out string) (string, error) {
	if out == "" || out == in {
		return "", &models.Unavailable{Provider: name, Reason: models.ReasonEmpty, Detail: "no translation"}
	}
	return out, nil
}

// Chain tries each tier in order.
type Chain struct {
	tiers  []Tier
	cache  cache.Service
	ttl    time.Duration
	logger *applogger.Logger
}

// ChainOption configures Chain.
type ChainOption func(*Chain)

// WithCache stores successful translations for ttl.
func WithCache(c cache.Service, ttl time.Duration) ChainOption {
	return func(ch *Chain) {
		ch.cache = c
		ch.ttl = ttl
	}
}

func WithLogger(l *applogger.Logger) ChainOption {
	return func(ch *Chain) {
		ch.logger = l
	}
}

func NewChain(tiers []Tier, opts ...ChainOption) *Chain {
	ch := &Chain{tiers: tiers, logger: applogger.Nop()}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Translate never fails: when every tier fails or echoes the input, the
// truncated input is returned. Blank input yields "" without any call.
func (ch *Chain) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	in := util.Truncate(text, MaxInput)

	key := cache.GenerateKeyWithParams(cachePrefix, SourceLang, TargetLang, cache.HashKey(in))
	if ch.cache != nil {
		if v, err := ch.cache.Get(ctx, key); err == nil {
			return v, nil
		}
	}

	for _, tier := range ch.tiers {
		out, err := tier.Translate(ctx, in)
		if err != nil {
			continue
		}
		if ch.cache != nil {
			if err := ch.cache.Set(ctx, key, out, ch.ttl); err != nil {
				ch.logger.Warn("translation cache set failed", applogger.Error(err))
			}
		}
		return out, nil
	}
	return in, nil
}
