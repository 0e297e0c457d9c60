package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/domain"
)

const selectColumns = `
SELECT id::text, title, price::text, original_price::text, COALESCE(image_url, ''), category,
       created_at, COALESCE(description, ''), COALESCE(is_customizable, false),
       customization_fields, in_stock
FROM products
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	mapper *Mapper
	logger *zap.Logger
}

// PostgresRepo is the products table accessed through a pgx pool.
type PostgresRepo interface {
	Repository
	Writer
}

func NewPostgres(pool *pgxpool.Pool, mapper *Mapper, logger *zap.Logger) PostgresRepo {
	if mapper == nil {
		mapper = NewMapper()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, mapper: mapper, logger: logger.Named("product_repo")}
}

func (r *postgresRepo) FetchAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, selectColumns+`ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Warn("list failed", zap.Error(err))
		return nil, &domain.FetchError{Op: "products", Err: err}
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			r.logger.Warn("list scan failed", zap.Error(err))
			return nil, &domain.FetchError{Op: "products", Err: err}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn("list rows failed", zap.Error(err))
		return nil, &domain.FetchError{Op: "products", Err: err}
	}
	r.logger.Debug("listed", zap.Int("count", len(result)))
	return r.mapper.MapAll(result), nil
}

func (r *postgresRepo) FetchByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		r.logger.Debug("get invalid id", zap.String("id", id))
		return nil, domain.ErrNotFound
	}

	row, err := scanRow(r.pool.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("get not found", zap.String("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Warn("get failed", zap.String("id", id), zap.Error(err))
		return nil, &domain.FetchError{Op: "product " + id, Err: err}
	}
	p := r.mapper.Map(row)
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, row Row) (*Row, error) {
	const q = `
INSERT INTO products (id, title, price, original_price, image_url, category, description, is_customizable, customization_fields, in_stock, created_at)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3::numeric, $4::numeric, NULLIF($5, ''), $6, NULLIF($7, ''), $8, COALESCE($9::jsonb, '[]'::jsonb), $10, COALESCE($11, now()))
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    image_url = EXCLUDED.image_url,
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    is_customizable = EXCLUDED.is_customizable,
    customization_fields = EXCLUDED.customization_fields,
    in_stock = EXCLUDED.in_stock
RETURNING id::text, created_at
`
	var original *string
	if row.OriginalPrice.Valid {
		s := row.OriginalPrice.Decimal.String()
		original = &s
	}
	var fields *string
	if len(row.CustomizationFields) > 0 {
		s := string(row.CustomizationFields)
		fields = &s
	}
	var createdAt *time.Time
	if !row.CreatedAt.IsZero() {
		createdAt = &row.CreatedAt
	}

	res := row
	err := r.pool.QueryRow(ctx, q,
		row.ID,
		row.Title,
		row.Price.String(),
		original,
		row.ImageURL,
		row.Category,
		row.Description,
		row.IsCustomizable,
		fields,
		row.InStock,
		createdAt,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Warn("upsert failed", zap.String("title", row.Title), zap.Error(err))
		return nil, err
	}
	if row.ID != "" && res.ID != row.ID {
		return nil, fmt.Errorf("product repo: id mismatch for title=%s existing_id=%s import_id=%s", row.Title, res.ID, row.ID)
	}
	r.logger.Debug("upserted", zap.String("id", res.ID), zap.String("title", res.Title))
	return &res, nil
}

func scanRow(s pgx.Row) (Row, error) {
	var (
		row      Row
		price    string
		original *string
	)
	if err := s.Scan(
		&row.ID,
		&row.Title,
		&price,
		&original,
		&row.ImageURL,
		&row.Category,
		&row.CreatedAt,
		&row.Description,
		&row.IsCustomizable,
		&row.CustomizationFields,
		&row.InStock,
	); err != nil {
		return Row{}, err
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return Row{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	row.Price = p
	if original != nil {
		op, err := decimal.NewFromString(*original)
		if err != nil {
			return Row{}, fmt.Errorf("parse original price %q: %w", *original, err)
		}
		row.OriginalPrice = decimal.NewNullDecimal(op)
	}
	return row, nil
}
