package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/estadio/futsal-booking/internal/model"
)

// ErrFieldNotFound is returned when a field lookup fails.
var ErrFieldNotFound = errors.New("field not found")

// FieldRepo provides read access to the venue's futsal fields. Fields
// are seeded by migration and rarely change, so only lookups are
// exposed.
type FieldRepo struct {
    db *sql.DB
}

// NewFieldRepo constructs a FieldRepo with the given DB handle.
func NewFieldRepo(db *sql.DB) *FieldRepo {
    return &FieldRepo{db: db}
}

// List returns all fields ordered by id.
func (r *FieldRepo) List(ctx context.Context) ([]model.Field, error) {
    const q = `SELECT id, name, surface FROM fields ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Field, 0)
    for rows.Next() {
        var f model.Field
        if err := rows.Scan(&f.ID, &f.Name, &f.Surface); err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    return out, rows.Err()
}

// GetByID retrieves a field by its ID. It returns ErrFieldNotFound
// when no row is found.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (*model.Field, error) {
    const q = `SELECT id, name, surface FROM fields WHERE id = ?`
    var f model.Field
    err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.Name, &f.Surface)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrFieldNotFound
        }
        return nil, err
    }
    return &f, nil
}
