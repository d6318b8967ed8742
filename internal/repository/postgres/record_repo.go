package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdesk-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

type recordRepository struct {
	db DBTX
}

// NewRecordRepository stores every record as a JSONB row keyed by (tab, id).
// seq preserves insertion order; version is the optimistic lock.
func NewRecordRepository(db DBTX) domain.RecordRepository {
	return &recordRepository{db: db}
}

const (
	insertRecord = `INSERT INTO fulfillment_records (tab, id, version, created_at, payload)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (tab, id) DO NOTHING`
	selectRecord = `SELECT payload FROM fulfillment_records WHERE tab = $1 AND id = $2`
	updateRecord = `UPDATE fulfillment_records SET payload = $4, version = version + 1
		WHERE tab = $1 AND id = $2 AND version = $3`
	existsRecord = `SELECT version FROM fulfillment_records WHERE tab = $1 AND id = $2`
	listRecords  = `SELECT payload FROM fulfillment_records WHERE tab = $1 ORDER BY seq`
)

func (r *recordRepository) create(ctx context.Context, ref domain.RecordRef, createdAt time.Time, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	tag, err := r.db.Exec(ctx, insertRecord, string(ref.Tab), ref.ID, int64(1), createdAt, payload)
	if err != nil {
		return fmt.Errorf("insert %s: %w", ref, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Errorf(domain.KindValidation, "%s already exists", ref)
	}
	return nil
}

func (r *recordRepository) get(ctx context.Context, ref domain.RecordRef, into any) error {
	var payload []byte
	err := r.db.QueryRow(ctx, selectRecord, string(ref.Tab), ref.ID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Errorf(domain.KindNotFound, "%s not found", ref)
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", ref, err)
	}
	if err := json.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("decode %s: %w", ref, err)
	}
	return nil
}

// save writes rec, which must already carry version+1, if the row is still at version.
func (r *recordRepository) save(ctx context.Context, ref domain.RecordRef, version int64, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	tag, err := r.db.Exec(ctx, updateRecord, string(ref.Tab), ref.ID, version, payload)
	if err != nil {
		return fmt.Errorf("update %s: %w", ref, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var current int64
	err = r.db.QueryRow(ctx, existsRecord, string(ref.Tab), ref.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Errorf(domain.KindNotFound, "%s not found", ref)
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", ref, err)
	}
	return domain.Errorf(domain.KindConflict, "%s was modified concurrently (version %d, have %d)", ref, current, version)
}

func list[T any](ctx context.Context, db DBTX, tab domain.Tab, keep func(*T) bool) ([]T, error) {
	rows, err := db.Query(ctx, listRecords, string(tab))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", tab, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", tab, err)
		}
		var rec T
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", tab, err)
		}
		if keep == nil || keep(&rec) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", tab, err)
	}
	return out, nil
}

// --- Orders ---

func (r *recordRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	order.Version = 1
	return r.create(ctx, order.Ref(), order.CreatedAt, order)
}

func (r *recordRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.get(ctx, domain.RecordRef{Tab: domain.TabOrders, ID: id}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *recordRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	next := order.Clone()
	next.Version++
	if err := r.save(ctx, order.Ref(), order.Version, next); err != nil {
		return err
	}
	order.Version = next.Version
	return nil
}

func (r *recordRepository) ListOrders(ctx context.Context, match domain.OrderPredicate) ([]domain.Order, error) {
	return list(ctx, r.db, domain.TabOrders, func(o *domain.Order) bool { return match == nil || match(o) })
}

// --- Returns & Exchanges ---

func (r *recordRepository) CreateRequest(ctx context.Context, req *domain.ServiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	req.Version = 1
	return r.create(ctx, req.Ref(), req.CreatedAt, req)
}

func (r *recordRepository) GetRequest(ctx context.Context, kind domain.RequestKind, id string) (*domain.ServiceRequest, error) {
	if !kind.Valid() {
		return nil, domain.Errorf(domain.KindValidation, "unknown request kind %q", kind)
	}
	var req domain.ServiceRequest
	if err := r.get(ctx, domain.RecordRef{Tab: kind.Tab(), ID: id}, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *recordRepository) SaveRequest(ctx context.Context, req *domain.ServiceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	next := req.Clone()
	next.Version++
	if err := r.save(ctx, req.Ref(), req.Version, next); err != nil {
		return err
	}
	req.Version = next.Version
	return nil
}

func (r *recordRepository) ListRequests(ctx context.Context, kind domain.RequestKind, match domain.RequestPredicate) ([]domain.ServiceRequest, error) {
	if !kind.Valid() {
		return nil, domain.Errorf(domain.KindValidation, "unknown request kind %q", kind)
	}
	return list(ctx, r.db, kind.Tab(), func(req *domain.ServiceRequest) bool { return match == nil || match(req) })
}
