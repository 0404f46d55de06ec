package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// ErrPartNotFound is returned when a part lookup yields no rows.
var ErrPartNotFound = errors.New("part not found")

// PartRepo provides CRUD operations for inventory parts.  Stock
// mutations driven by ticket reconciliation go through the Tx variants
// so they participate in the engine's transaction; the only direct
// stock path is AddStock (restock).
type PartRepo struct {
	db *sql.DB
}

// NewPartRepo returns a PartRepo bound to the given database.
func NewPartRepo(db *sql.DB) *PartRepo { return &PartRepo{db: db} }

// Create inserts a new part and populates its generated ID and
// timestamps.
func (r *PartRepo) Create(ctx context.Context, p *model.Part) error {
	const q = `INSERT INTO parts (part_name, price, stock) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.PartName, p.Price, p.Stock)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM parts WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a part by its ID.  It returns ErrPartNotFound if no
// row is found.
func (r *PartRepo) GetByID(ctx context.Context, id uint64) (*model.Part, error) {
	const q = `SELECT id, part_name, price, stock, created_at, updated_at FROM parts WHERE id = ? LIMIT 1`
	var p model.Part
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.PartName, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all parts ordered by ID.
func (r *PartRepo) List(ctx context.Context) ([]model.Part, error) {
	const q = `SELECT id, part_name, price, stock, created_at, updated_at FROM parts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Part, 0)
	for rows.Next() {
		var p model.Part
		if err := rows.Scan(&p.ID, &p.PartName, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites a part's name, price and stock.  Returns
// ErrPartNotFound when the row does not exist.
func (r *PartRepo) Update(ctx context.Context, p *model.Part) error {
	const q = `UPDATE parts SET part_name = ?, price = ?, stock = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.PartName, p.Price, p.Stock, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM parts WHERE id = ?`, p.ID).Scan(&one); err2 != nil {
			if errors.Is(err2, sql.ErrNoRows) {
				return ErrPartNotFound
			}
			return err2
		}
	}
	return nil
}

// Delete removes a part.  Parts still present on a ticket's part lines
// cannot be deleted; the FK violation is reported as ErrConflict.
func (r *PartRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		if foreignKeyConflict(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPartNotFound
	}
	return nil
}

// AddStock atomically increases a part's stock by the given amount and
// returns the new total.  Returns ErrPartNotFound when the part does
// not exist.
func (r *PartRepo) AddStock(ctx context.Context, id uint64, amount uint32) (uint32, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE parts SET stock = stock + ? WHERE id = ?`, amount, id); err != nil {
		return 0, err
	}
	var stock uint32
	err := r.db.QueryRowContext(ctx, `SELECT stock FROM parts WHERE id = ?`, id).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrPartNotFound
	}
	return stock, err
}

// GetForUpdateTx loads a part with a row lock so concurrent stock
// checks against the same part serialize.  Returns (nil, nil) when the
// part does not exist.
func (r *PartRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Part, error) {
	const q = `SELECT id, part_name, price, stock, created_at, updated_at FROM parts WHERE id = ? FOR UPDATE`
	var p model.Part
	err := tx.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.PartName, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStockTx sets a part's stock within the provided transaction.
func (r *PartRepo) UpdateStockTx(ctx context.Context, tx *sql.Tx, id uint64, stock uint32) error {
	_, err := tx.ExecContext(ctx, `UPDATE parts SET stock = ? WHERE id = ?`, stock, id)
	return err
}
