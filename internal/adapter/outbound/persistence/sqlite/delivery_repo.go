package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
)

// DeliveryRepo implements outbound.DeliveryRepository using SQLite.
type DeliveryRepo struct {
	db *sql.DB
}

var _ outbound.DeliveryRepository = (*DeliveryRepo)(nil)

// NewDeliveryRepo creates a new DeliveryRepo backed by the given store.
func NewDeliveryRepo(store *Store) *DeliveryRepo {
	return &DeliveryRepo{db: store.DB}
}

// Record inserts a delivery attempt.
func (r *DeliveryRepo) Record(ctx context.Context, rec model.DeliveryRecord) error {
	const q = `INSERT INTO deliveries
		(id, run_id, repository, workflow, status, locale, format, delivered, error, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.RunID, rec.Repository, rec.Workflow, rec.Status,
		string(rec.Locale), string(rec.Format),
		rec.Delivered, rec.Error, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting delivery: %w", err)
	}
	return nil
}

// List returns a page of delivery attempts ordered by creation time.
func (r *DeliveryRepo) List(ctx context.Context, filter outbound.DeliveryFilter, page outbound.PageRequest) (outbound.PageResult[model.DeliveryRecord], error) {
	where, args := buildDeliveryWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deliveries"+where, args...).Scan(&total); err != nil {
		return outbound.PageResult[model.DeliveryRecord]{}, fmt.Errorf("counting deliveries: %w", err)
	}

	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}
	size := page.Size
	if size <= 0 {
		size = 20
	}
	offset := page.Page * size

	dataQ := fmt.Sprintf(`SELECT id, run_id, repository, workflow, status, locale, format, delivered, error, created_at
		FROM deliveries%s ORDER BY created_at %s, id %s LIMIT ? OFFSET ?`, where, dir, dir)

	rows, err := r.db.QueryContext(ctx, dataQ, append(args, size, offset)...)
	if err != nil {
		return outbound.PageResult[model.DeliveryRecord]{}, fmt.Errorf("listing deliveries: %w", err)
	}
	defer rows.Close()

	var items []model.DeliveryRecord
	for rows.Next() {
		rec, err := scanDelivery(rows)
		if err != nil {
			return outbound.PageResult[model.DeliveryRecord]{}, fmt.Errorf("scanning delivery: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return outbound.PageResult[model.DeliveryRecord]{}, fmt.Errorf("iterating deliveries: %w", err)
	}

	return outbound.PageResult[model.DeliveryRecord]{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		Size:       size,
	}, nil
}

// --- helpers ---

type deliveryScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(s deliveryScanner) (model.DeliveryRecord, error) {
	var rec model.DeliveryRecord
	var locale, format string

	err := s.Scan(
		&rec.ID, &rec.RunID, &rec.Repository, &rec.Workflow, &rec.Status,
		&locale, &format, &rec.Delivered, &rec.Error, &rec.CreatedAt,
	)
	if err != nil {
		return model.DeliveryRecord{}, err
	}
	rec.Locale = model.Locale(locale)
	rec.Format = model.Format(format)
	return rec, nil
}

func buildDeliveryWhere(f outbound.DeliveryFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Repository != "" {
		clauses = append(clauses, "repository = ?")
		args = append(args, f.Repository)
	}
	if f.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Delivered != nil {
		clauses = append(clauses, "delivered = ?")
		args = append(args, *f.Delivered)
	}
	if f.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Since.UTC())
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
