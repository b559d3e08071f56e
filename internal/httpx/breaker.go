package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig configures the optional circuit breaker around a Doer.
type BreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"trip_ratio"`
}

// errServer marks a 5xx so the breaker counts it as a failure while the
// response still reaches the caller.
var errServer = errors.New("upstream server error")

type breakerDoer struct {
	next Doer
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps next in a circuit breaker named after the upstream
// service. Transport errors and 5xx responses count as failures. When the
// breaker is open, requests fail immediately; nothing is retried. A
// disabled config returns next unchanged.
func WithBreaker(next Doer, name string, cfg BreakerConfig, logger *zap.Logger) Doer {
	if !cfg.Enabled {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &breakerDoer{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *breakerDoer) Do(req *http.Request) (*http.Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		resp, err := b.next.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errServer
		}
		return resp, nil
	})
	if errors.Is(err, errServer) {
		return out.(*http.Response), nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", b.cb.Name(), err)
	}
	if err != nil {
		return nil, err
	}
	return out.(*http.Response), nil
}
