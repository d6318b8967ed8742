package usecase

import (
	"context"
	"maps"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/cache"
)

const (
	statsCacheTTL = time.Minute
	maxStatsRange = 365 * 24 * time.Hour
)

// TabStats counts one tab's records by status and order type.
type TabStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	ByType   map[string]int `json:"byType"`
}

// StatsSummary is the dashboard view over all tabs for one date range.
type StatsSummary struct {
	From time.Time                 `json:"from,omitempty"`
	To   time.Time                 `json:"to,omitempty"`
	Tabs map[domain.Tab]*TabStats `json:"tabs"`
}

// StatsUsecase aggregates counts for the dashboard. Results are cached
// briefly, so counts can lag a fresh mutation by up to a minute.
type StatsUsecase struct {
	repo  domain.RecordRepository
	cache cache.CacheService
}

func NewStatsUsecase(repo domain.RecordRepository, store cache.CacheService) *StatsUsecase {
	return &StatsUsecase{repo: repo, cache: cache.Namespaced("stats", store)}
}

// Summary counts records created within [from, to]. Zero bounds are open.
func (uc *StatsUsecase) Summary(ctx context.Context, from, to time.Time) (*StatsSummary, error) {
	if !from.IsZero() && !to.IsZero() {
		if to.Before(from) {
			return nil, domain.Errorf(domain.KindValidation, "end date must be after start date")
		}
		if to.Sub(from) > maxStatsRange {
			return nil, domain.Errorf(domain.KindValidation, "date range cannot exceed 1 year")
		}
	}

	cacheKey := "summary:" + boundKey(from) + ":" + boundKey(to)
	if val, found := uc.cache.Get(cacheKey); found {
		return val.(*StatsSummary).clone(), nil
	}

	inRange := func(r domain.Record) bool {
		c := r.CreatedOn()
		return (from.IsZero() || !c.Before(from)) && (to.IsZero() || !c.After(to))
	}

	summary := &StatsSummary{From: from, To: to, Tabs: make(map[domain.Tab]*TabStats, len(domain.Tabs))}
	for _, tab := range domain.Tabs {
		stats := &TabStats{ByStatus: map[string]int{}, ByType: map[string]int{}}
		count := func(r domain.Record) bool {
			if inRange(r) {
				stats.Total++
				stats.ByStatus[r.StatusLabel()]++
				stats.ByType[string(r.TypeOf())]++
			}
			return false
		}

		var err error
		if kind, ok := tab.RequestKind(); ok {
			_, err = uc.repo.ListRequests(ctx, kind, func(r *domain.ServiceRequest) bool { return count(r) })
		} else {
			_, err = uc.repo.ListOrders(ctx, func(o *domain.Order) bool { return count(o) })
		}
		if err != nil {
			return nil, err
		}
		summary.Tabs[tab] = stats
	}

	uc.cache.Set(cacheKey, summary, statsCacheTTL)
	return summary.clone(), nil
}

// clone copies the maps so callers never share the cached summary.
func (s *StatsSummary) clone() *StatsSummary {
	out := &StatsSummary{From: s.From, To: s.To, Tabs: make(map[domain.Tab]*TabStats, len(s.Tabs))}
	for tab, st := range s.Tabs {
		out.Tabs[tab] = &TabStats{Total: st.Total, ByStatus: maps.Clone(st.ByStatus), ByType: maps.Clone(st.ByType)}
	}
	return out
}

func boundKey(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
