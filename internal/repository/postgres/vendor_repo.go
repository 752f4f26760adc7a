package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventportals/internal/domain"
)

type vendorRepository struct {
	DB *sql.DB
}

// NewVendorRepository returns a domain.VendorRepository implemented with Postgres.
func NewVendorRepository(db *sql.DB) domain.VendorRepository {
	return &vendorRepository{DB: db}
}

func (r *vendorRepository) CreateBooth(ctx context.Context, b *domain.Booth) error {
	query := `
		INSERT INTO booths (event_id, vendor_id, name, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, b.EventID, b.VendorID, b.Name, b.Location, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err, "booths_event_vendor_key") {
			return domain.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (r *vendorRepository) GetBoothByID(ctx context.Context, boothID string) (*domain.Booth, error) {
	query := `
		SELECT id, event_id, vendor_id, name, location, created_at, updated_at
		FROM booths
		WHERE id = $1
	`
	b := &domain.Booth{}
	err := r.DB.QueryRowContext(ctx, query, boothID).
		Scan(&b.ID, &b.EventID, &b.VendorID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *vendorRepository) GetBoothByEventAndVendor(ctx context.Context, eventID, vendorID string) (*domain.Booth, error) {
	query := `
		SELECT id, event_id, vendor_id, name, location, created_at, updated_at
		FROM booths
		WHERE event_id = $1 AND vendor_id = $2
	`
	b := &domain.Booth{}
	err := r.DB.QueryRowContext(ctx, query, eventID, vendorID).
		Scan(&b.ID, &b.EventID, &b.VendorID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *vendorRepository) ListBoothsByEventID(ctx context.Context, eventID string) ([]*domain.Booth, error) {
	query := `
		SELECT id, event_id, vendor_id, name, location, created_at, updated_at
		FROM booths
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var booths []*domain.Booth
	for rows.Next() {
		b := &domain.Booth{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.VendorID, &b.Name, &b.Location, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		booths = append(booths, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if booths == nil {
		booths = []*domain.Booth{}
	}
	return booths, nil
}

func (r *vendorRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (booth_id, name, price_cents, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.BoothID, p.Name, p.PriceCents, p.Stock, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *vendorRepository) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT id, booth_id, name, price_cents, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	p := &domain.Product{}
	err := r.DB.QueryRowContext(ctx, query, productID).
		Scan(&p.ID, &p.BoothID, &p.Name, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *vendorRepository) ListProductsByBoothID(ctx context.Context, boothID string) ([]*domain.Product, error) {
	query := `
		SELECT id, booth_id, name, price_cents, stock, created_at, updated_at
		FROM products
		WHERE booth_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, boothID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.BoothID, &p.Name, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

// RecordSale decrements stock and inserts the sale in one transaction. The
// conditional UPDATE is the oversell guard: zero rows affected means the
// remaining stock is short.
func (r *vendorRepository) RecordSale(ctx context.Context, sale *domain.Sale) error {
	return runTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
		`, sale.ProductID, sale.Quantity)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrInsufficientStock
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO sales (booth_id, product_id, quantity, total_cents, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, sale.BoothID, sale.ProductID, sale.Quantity, sale.TotalCents, sale.CreatedAt).Scan(&sale.ID)
	})
}

func (r *vendorRepository) ListSalesByBoothID(ctx context.Context, boothID string) ([]*domain.Sale, error) {
	query := `
		SELECT id, booth_id, product_id, quantity, total_cents, created_at
		FROM sales
		WHERE booth_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, boothID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		s := &domain.Sale{}
		if err := rows.Scan(&s.ID, &s.BoothID, &s.ProductID, &s.Quantity, &s.TotalCents, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	return sales, nil
}

func (r *vendorRepository) SalesSummaryByBoothID(ctx context.Context, boothID string) (*domain.SalesSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(total_cents), 0)
		FROM sales
		WHERE booth_id = $1
	`
	summary := &domain.SalesSummary{BoothID: boothID}
	err := r.DB.QueryRowContext(ctx, query, boothID).
		Scan(&summary.SaleCount, &summary.UnitsSold, &summary.GrossTotalCents)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
