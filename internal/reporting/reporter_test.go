package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sportsgear/internal/models"
	"sportsgear/internal/repository"
)

type fakeOrders struct {
	records []repository.SaleRecord
	calls   int
	err     error
	onSales func()
}

func (f *fakeOrders) Count(context.Context) (int64, error) {
	return int64(len(f.records)), f.err
}

func (f *fakeOrders) Sales(_ context.Context, excludeCancelled bool) ([]repository.SaleRecord, error) {
	f.calls++
	if f.onSales != nil {
		f.onSales()
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []repository.SaleRecord
	for _, r := range f.records {
		if excludeCancelled && r.Status == models.OrderStatusCancelled {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeUsers struct{ n int64 }

func (f *fakeUsers) Count(context.Context) (int64, error) { return f.n, nil }

func sale(day string, hour int, total float64, status models.OrderStatus) repository.SaleRecord {
	d, _ := time.Parse(dayLayout, day)
	return repository.SaleRecord{CreatedAt: d.Add(time.Duration(hour) * time.Hour), TotalPrice: total, Status: status}
}

func sampleOrders() *fakeOrders {
	return &fakeOrders{records: []repository.SaleRecord{
		sale("2024-01-02", 9, 75, models.OrderStatusProcessing),
		sale("2024-01-01", 8, 100, models.OrderStatusDelivered),
		sale("2024-01-01", 23, 50, models.OrderStatusCancelled),
	}}
}

func setupRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestGroupByDay(t *testing.T) {
	days := GroupByDay(sampleOrders().records)

	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-01", days[0].Date)
	assert.Equal(t, int64(2), days[0].Count)
	assert.True(t, days[0].Sales.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "2024-01-02", days[1].Date)
	assert.Equal(t, int64(1), days[1].Count)
	assert.True(t, days[1].Sales.Equal(decimal.NewFromInt(75)))
	assert.True(t, Sum(days).Equal(decimal.NewFromInt(225)))
}

func TestGroupByDay_UsesUTCDay(t *testing.T) {
	tz := time.FixedZone("UTC+5", 5*3600)
	records := []repository.SaleRecord{
		{CreatedAt: time.Date(2024, 1, 2, 3, 0, 0, 0, tz), TotalPrice: 10},
	}
	days := GroupByDay(records)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-01-01", days[0].Date)
}

func TestReporter_Dashboard(t *testing.T) {
	r := NewReporter(Sources{Orders: sampleOrders(), Users: &fakeUsers{n: 4}}, nil, Options{}, zap.NewNop())

	d, err := r.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.UsersCount)
	assert.Equal(t, int64(3), d.OrdersCount)
	assert.True(t, d.TotalSales.Equal(decimal.NewFromInt(225)))
	require.Len(t, d.SalesData, 2)
	assert.Equal(t, "2024-01-01", d.SalesData[0].Date)

	summary, err := r.DailySummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "2024-01-02", summary[0].Date)
	assert.Equal(t, "2024-01-01", summary[1].Date)
}

func TestReporter_ExcludeCancelled(t *testing.T) {
	r := NewReporter(Sources{Orders: sampleOrders(), Users: &fakeUsers{}}, nil, Options{ExcludeCancelled: true}, nil)

	d, err := r.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, d.TotalSales.Equal(decimal.NewFromInt(175)))
	assert.Equal(t, int64(1), d.SalesData[0].Count)
}

func TestReporter_CachesAndInvalidates(t *testing.T) {
	cache, mr := setupRedis(t)
	orders := sampleOrders()
	r := NewReporter(Sources{Orders: orders, Users: &fakeUsers{n: 1}}, cache, Options{TTL: time.Minute}, zap.NewNop())
	ctx := context.Background()

	_, err := r.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(snapshotKey))

	d, err := r.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, orders.calls)
	assert.True(t, d.TotalSales.Equal(decimal.NewFromInt(225)))

	orders.records = append(orders.records, sale("2024-01-03", 1, 25, models.OrderStatusProcessing))
	require.NoError(t, r.Invalidate(ctx))
	assert.False(t, mr.Exists(snapshotKey))

	d, err = r.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, orders.calls)
	assert.True(t, d.TotalSales.Equal(decimal.NewFromInt(250)))
}

func TestReporter_CacheExpires(t *testing.T) {
	cache, mr := setupRedis(t)
	orders := sampleOrders()
	r := NewReporter(Sources{Orders: orders, Users: &fakeUsers{}}, cache, Options{TTL: time.Minute}, nil)

	_, err := r.Dashboard(context.Background())
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = r.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, orders.calls)
}

func TestReporter_FallsBackWhenRedisDown(t *testing.T) {
	cache, mr := setupRedis(t)
	mr.Close()
	r := NewReporter(Sources{Orders: sampleOrders(), Users: &fakeUsers{}}, cache, Options{TTL: time.Minute}, nil)

	d, err := r.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, d.TotalSales.Equal(decimal.NewFromInt(225)))
}

func TestReporter_SourceError(t *testing.T) {
	boom := errors.New("mongo down")
	r := NewReporter(Sources{Orders: &fakeOrders{err: boom}, Users: &fakeUsers{}}, nil, Options{}, nil)

	_, err := r.Dashboard(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestReporter_UsersCountIsLive(t *testing.T) {
	cache, _ := setupRedis(t)
	users := &fakeUsers{n: 1}
	r := NewReporter(Sources{Orders: sampleOrders(), Users: users}, cache, Options{TTL: time.Minute}, nil)
	ctx := context.Background()

	d, err := r.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.UsersCount)

	users.n = 2
	d, err = r.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.UsersCount)
}

func TestReporter_InvalidateDuringComputeSkipsStore(t *testing.T) {
	cache, mr := setupRedis(t)
	orders := sampleOrders()
	r := NewReporter(Sources{Orders: orders, Users: &fakeUsers{}}, cache, Options{TTL: time.Minute}, nil)
	ctx := context.Background()

	orders.onSales = func() { require.NoError(t, r.Invalidate(ctx)) }
	_, err := r.Dashboard(ctx)
	require.NoError(t, err)
	assert.False(t, mr.Exists(snapshotKey))

	orders.onSales = nil
	_, err = r.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(snapshotKey))
	assert.Equal(t, 2, orders.calls)
}
