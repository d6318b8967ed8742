package usecase

import (
	"context"
	"strings"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/metrics"
)

// Filter selects records from one tab. Status and OrderType set to "" or
// "all", and zero From and To, mean "no filter" on that field. Both bounds
// are inclusive.
type Filter struct {
	Tab       domain.Tab
	Status    string
	OrderType string
	From      time.Time
	To        time.Time
}

// QueryResult holds the records of whichever tab was queried.
type QueryResult struct {
	Tab      domain.Tab              `json:"tab"`
	Orders   []domain.Order          `json:"orders,omitempty"`
	Requests []domain.ServiceRequest `json:"requests,omitempty"`
	Total    int                     `json:"total"`
}

// QueryUsecase is read-only and safe for concurrent use.
type QueryUsecase struct {
	repo    domain.RecordRepository
	metrics *metrics.Recorder
}

func NewQueryUsecase(repo domain.RecordRepository, rec *metrics.Recorder) *QueryUsecase {
	return &QueryUsecase{repo: repo, metrics: rec}
}

type recordMatcher func(domain.Record) bool

// compile validates f and turns its active fields into one ANDed predicate.
func (f Filter) compile() (recordMatcher, error) {
	var preds []recordMatcher

	if status := strings.TrimSpace(f.Status); !isSentinel(status) {
		want, err := parseTabStatus(f.Tab, status)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(r domain.Record) bool { return r.StatusLabel() == want })
	}
	if typ := strings.TrimSpace(f.OrderType); !isSentinel(typ) {
		want, err := domain.ParseOrderType(typ)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(r domain.Record) bool { return r.TypeOf() == want })
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return nil, domain.Errorf(domain.KindValidation, "date range starts %s after it ends %s",
			f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	}
	if !f.From.IsZero() {
		from := f.From
		preds = append(preds, func(r domain.Record) bool { return !r.CreatedOn().Before(from) })
	}
	if !f.To.IsZero() {
		to := f.To
		preds = append(preds, func(r domain.Record) bool { return !r.CreatedOn().After(to) })
	}

	return func(r domain.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}, nil
}

// AllFilter is the explicit "no filter" value for Status and OrderType.
const AllFilter = "all"

func isSentinel(v string) bool {
	return v == "" || strings.EqualFold(v, AllFilter)
}

// parseTabStatus resolves a status filter against the statuses valid for tab.
func parseTabStatus(tab domain.Tab, s string) (string, error) {
	if tab == domain.TabOrders {
		st, err := domain.ParseOrderStatus(s)
		return string(st), err
	}
	d, err := domain.ParseDecisionStatus(s)
	return string(d), err
}

// Query returns the records of f.Tab matching every active filter, in
// insertion order. The result slices are never nil.
func (u *QueryUsecase) Query(ctx context.Context, f Filter) (*QueryResult, error) {
	tab, err := domain.ParseTab(string(f.Tab))
	if err != nil {
		return nil, err
	}
	f.Tab = tab
	match, err := f.compile()
	if err != nil {
		return nil, err
	}

	res := &QueryResult{Tab: tab}
	if kind, ok := tab.RequestKind(); ok {
		res.Requests, err = u.repo.ListRequests(ctx, kind, func(r *domain.ServiceRequest) bool { return match(r) })
		if res.Requests == nil {
			res.Requests = []domain.ServiceRequest{}
		}
		res.Total = len(res.Requests)
	} else {
		res.Orders, err = u.repo.ListOrders(ctx, func(o *domain.Order) bool { return match(o) })
		if res.Orders == nil {
			res.Orders = []domain.Order{}
		}
		res.Total = len(res.Orders)
	}
	if err != nil {
		return nil, err
	}
	u.metrics.ObserveQuery(string(tab), res.Total)
	return res, nil
}

func (u *QueryUsecase) ListOrders(ctx context.Context, f Filter) ([]domain.Order, error) {
	f.Tab = domain.TabOrders
	res, err := u.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return res.Orders, nil
}

func (u *QueryUsecase) ListReturns(ctx context.Context, f Filter) ([]domain.ServiceRequest, error) {
	f.Tab = domain.TabReturns
	res, err := u.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return res.Requests, nil
}

func (u *QueryUsecase) ListExchanges(ctx context.Context, f Filter) ([]domain.ServiceRequest, error) {
	f.Tab = domain.TabExchanges
	res, err := u.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return res.Requests, nil
}
