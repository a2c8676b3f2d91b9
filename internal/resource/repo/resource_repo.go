package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/UBelaid/SAgency4U/internal/resource/entity"
)

// ErrNotFound is returned when no row matches an id+owner probe.
var ErrNotFound = errors.New("record not found")

// Repo provides generic data access for owned-record tables using sqlx.
// One implementation serves every registered resource kind; all queries
// are parameterized and owner-filtered.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// ListByOwner returns every row of the kind's table owned by ownerID.
func (r *Repo) ListByOwner(ctx context.Context, kind entity.Kind, ownerID int64) ([]map[string]any, error) {
	q := buildSelect(kind)
	rows, err := r.db.QueryxContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		normalizeRow(kind, row)
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetByIDAndOwner fetches one row by id, constrained to ownerID. A row that
// is absent and a row owned by someone else are indistinguishable: both are
// ErrNotFound.
func (r *Repo) GetByIDAndOwner(ctx context.Context, kind entity.Kind, id, ownerID int64) (map[string]any, error) {
	q := buildSelect(kind) + " AND id = $2"
	rows, err := r.db.QueryxContext(ctx, q, ownerID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	row := map[string]any{}
	if err := rows.MapScan(row); err != nil {
		return nil, err
	}
	normalizeRow(kind, row)
	return row, nil
}

// Insert creates a row with owner_id = ownerID and returns the generated id.
// fields must hold a value (possibly nil) for every payload column of the kind.
func (r *Repo) Insert(ctx context.Context, kind entity.Kind, ownerID int64, fields map[string]any) (int64, error) {
	q, args := buildInsert(kind, ownerID, fields)
	var id int64
	if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites every payload column of the row. Ownership must already
// have been established by the caller.
func (r *Repo) Update(ctx context.Context, kind entity.Kind, id int64, fields map[string]any) error {
	q, args := buildUpdate(kind, id, fields)
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// Delete removes the row by id. Ownership must already have been
// established by the caller.
func (r *Repo) Delete(ctx context.Context, kind entity.Kind, id int64) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, kind.Table)
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ListRefs returns the caller's {id, name} pairs from the given table.
func (r *Repo) ListRefs(ctx context.Context, table string, ownerID int64) ([]entity.Ref, error) {
	q := fmt.Sprintf(`SELECT id, name FROM %s WHERE user_id = $1`, table)
	refs := []entity.Ref{}
	if err := r.db.SelectContext(ctx, &refs, q, ownerID); err != nil {
		return nil, err
	}
	return refs, nil
}

// buildSelect returns the owner-filtered select for a kind. Only registry
// kinds reach this point, so table and column names are never caller input.
func buildSelect(kind entity.Kind) string {
	cols := append([]string{"id"}, kind.Columns()...)
	return fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, strings.Join(cols, ", "), kind.Table)
}

func buildInsert(kind entity.Kind, ownerID int64, fields map[string]any) (string, []any) {
	cols := kind.Columns()
	names := make([]string, 0, len(cols)+1)
	marks := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)

	names = append(names, "user_id")
	marks = append(marks, "$1")
	args = append(args, ownerID)

	for i, col := range cols {
		names = append(names, col)
		marks = append(marks, "$"+strconv.Itoa(i+2))
		args = append(args, fields[col])
	}

	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		kind.Table, strings.Join(names, ", "), strings.Join(marks, ", "))
	return q, args
}

func buildUpdate(kind entity.Kind, id int64, fields map[string]any) (string, []any) {
	cols := kind.Columns()
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)

	for i, col := range cols {
		sets = append(sets, col+" = $"+strconv.Itoa(i+1))
		args = append(args, fields[col])
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		kind.Table, strings.Join(sets, ", "), len(cols)+1)
	return q, args
}

// normalizeRow rewrites driver-specific scan types into JSON-friendly
// values: NUMERIC comes back from lib/pq as []byte, DATE as time.Time.
// Byte slices are parsed as numbers only for columns the kind declares
// numeric; a TEXT column holding "0612345678" must stay a string.
func normalizeRow(kind entity.Kind, row map[string]any) {
	for k, v := range row {
		switch t := v.(type) {
		case []byte:
			s := string(t)
			if kind.NumericColumn(k) {
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					row[k] = f
					continue
				}
			}
			row[k] = s
		case time.Time:
			row[k] = t.Format("2006-01-02")
		case sql.NullString:
			if t.Valid {
				row[k] = t.String
			} else {
				row[k] = nil
			}
		}
	}
}
