package usecase

import (
	"context"
	"testing"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSummary_CountsPerTab(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "O1", domain.OrderTypePrepaid, testNow)
	f.seedOrder(t, "O2", domain.OrderTypeCOD, testNow.Add(time.Hour))
	f.seedOrder(t, "O3", domain.OrderTypeCOD, testNow.Add(-48*time.Hour))
	f.seedRequest(t, domain.RequestKindReturn, "R1", "O1", testNow)

	_, err := f.orders.AcceptOrder(adminCtx(), "O2")
	require.NoError(t, err)

	uc := NewStatsUsecase(f.repo, cache.NewMemoryCache(time.Minute, time.Minute))
	got, err := uc.Summary(context.Background(), testNow.Add(-time.Hour), testNow.Add(2*time.Hour))
	require.NoError(t, err)

	orders := got.Tabs[domain.TabOrders]
	assert.Equal(t, 2, orders.Total)
	assert.Equal(t, map[string]int{"pending": 1, "processing": 1}, orders.ByStatus)
	assert.Equal(t, map[string]int{"prepaid": 1, "cod": 1}, orders.ByType)
	assert.Equal(t, 1, got.Tabs[domain.TabReturns].Total)
	assert.Equal(t, 0, got.Tabs[domain.TabExchanges].Total)

	all, err := uc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Tabs[domain.TabOrders].Total)
}

func TestStatsSummary_CachesResult(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "O1", domain.OrderTypePrepaid, testNow)
	uc := NewStatsUsecase(f.repo, cache.NewMemoryCache(time.Minute, time.Minute))

	first, err := uc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	f.seedOrder(t, "O2", domain.OrderTypePrepaid, testNow)
	second, err := uc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Tabs[domain.TabOrders].Total, "served from cache")

	// Callers get their own copy.
	first.Tabs[domain.TabOrders].ByStatus["pending"] = 99
	delete(first.Tabs, domain.TabReturns)
	third, err := uc.Summary(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Tabs[domain.TabOrders].ByStatus["pending"])
	assert.Contains(t, third.Tabs, domain.TabReturns)
}

func TestStatsSummary_RejectsBadRange(t *testing.T) {
	uc := NewStatsUsecase(newFixture(t).repo, cache.NewMemoryCache(time.Minute, time.Minute))

	_, err := uc.Summary(context.Background(), testNow, testNow.Add(-time.Hour))
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = uc.Summary(context.Background(), testNow.AddDate(-2, 0, 0), testNow)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}
