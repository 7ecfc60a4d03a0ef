package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"sportsgear/internal/repository"
)

const snapshotKey = "reporting:snapshot"

type OrderSource interface {
	Count(ctx context.Context) (int64, error)
	Sales(ctx context.Context, excludeCancelled bool) ([]repository.SaleRecord, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Dashboard holds the grand totals and the ascending daily series.
type Dashboard struct {
	UsersCount  int64           `json:"usersCount"`
	OrdersCount int64           `json:"ordersCount"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	SalesData   []DayTotal      `json:"salesData"`
}

type Options struct {
	// ExcludeCancelled drops cancelled orders from revenue and daily counts.
	ExcludeCancelled bool
	TTL              time.Duration
}

type Reporter struct {
	src    Sources
	cache  Cache
	opts   Options
	logger *zap.Logger
	sfg    singleflight.Group

	// gen is bumped by Invalidate; a snapshot computed under an older
	// generation is returned but not cached.
	gen atomic.Uint64
}

// Sources are the collections the reporter reads.
type Sources struct {
	Orders OrderSource
	Users  UserCounter
}

// NewReporter builds a reporter. cache may be nil to always recompute.
func NewReporter(src Sources, cache Cache, opts Options, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{src: src, cache: cache, opts: opts, logger: logger}
}

// Dashboard returns the cached sales snapshot with a live user count.
func (r *Reporter) Dashboard(ctx context.Context) (Dashboard, error) {
	d, err := r.snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.UsersCount, err = r.src.Users.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to count users: %w", err)
	}
	return d, nil
}

// DailySummary returns the daily series, most recent day first.
func (r *Reporter) DailySummary(ctx context.Context) ([]DayTotal, error) {
	d, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Newest(d.SalesData), nil
}

// Invalidate drops the cached snapshot so the next read recomputes it.
func (r *Reporter) Invalidate(ctx context.Context) error {
	r.gen.Add(1)
	if r.cache == nil {
		return nil
	}
	return r.cache.Delete(ctx, snapshotKey)
}

func (r *Reporter) snapshot(ctx context.Context) (Dashboard, error) {
	v, err, _ := r.sfg.Do(snapshotKey, func() (interface{}, error) {
		if d, ok := r.cached(ctx); ok {
			return d, nil
		}

		gen := r.gen.Load()
		d, err := r.compute(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		if r.gen.Load() == gen {
			r.store(ctx, d)
		}
		return d, nil
	})
	if err != nil {
		return Dashboard{}, err
	}
	return v.(Dashboard), nil
}

func (r *Reporter) cached(ctx context.Context) (Dashboard, bool) {
	if r.cache == nil {
		return Dashboard{}, false
	}

	data, err := r.cache.Get(ctx, snapshotKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			r.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return Dashboard{}, false
	}

	var d Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		r.logger.Warn("stats cache entry unreadable", zap.Error(err))
		return Dashboard{}, false
	}
	return d, true
}

func (r *Reporter) store(ctx context.Context, d Dashboard) {
	if r.cache == nil || r.opts.TTL <= 0 {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		r.logger.Warn("stats cache encode failed", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, snapshotKey, data, r.opts.TTL); err != nil {
		r.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

func (r *Reporter) compute(ctx context.Context) (Dashboard, error) {
	ordersCount, err := r.src.Orders.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to count orders: %w", err)
	}
	sales, err := r.src.Orders.Sales(ctx, r.opts.ExcludeCancelled)
	if err != nil {
		return Dashboard{}, err
	}

	days := GroupByDay(sales)
	return Dashboard{
		OrdersCount: ordersCount,
		TotalSales:  Sum(days),
		SalesData:   days,
	}, nil
}
