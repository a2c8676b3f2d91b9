package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/UBelaid/SAgency4U/internal/resource/entity"
)

func clientsKind(t *testing.T) entity.Kind {
	t.Helper()
	k, ok := entity.KindByName("clients")
	require.True(t, ok)
	return k
}

func TestBuildSelect(t *testing.T) {
	t.Parallel()

	q := buildSelect(clientsKind(t))
	require.Equal(t, `SELECT id, name, email, phone, address FROM clients WHERE user_id = $1`, q)
}

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	q, args := buildInsert(clientsKind(t), 7, map[string]any{
		"name":  "Bob",
		"email": "b@x.com",
		"phone": nil,
		// address intentionally absent: still inserted, as NULL
	})
	require.Equal(t,
		`INSERT INTO clients (user_id, name, email, phone, address) VALUES ($1, $2, $3, $4, $5) RETURNING id`, q)
	require.Equal(t, []any{int64(7), "Bob", "b@x.com", nil, nil}, args)
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	q, args := buildUpdate(clientsKind(t), 42, map[string]any{
		"name":    "Bob",
		"email":   "b@x.com",
		"phone":   "123",
		"address": nil,
	})
	require.Equal(t,
		`UPDATE clients SET name = $1, email = $2, phone = $3, address = $4 WHERE id = $5`, q)
	require.Equal(t, []any{"Bob", "b@x.com", "123", nil, int64(42)}, args)
}

func TestNormalizeRow(t *testing.T) {
	t.Parallel()

	purchases, ok := entity.KindByName("purchases")
	require.True(t, ok)

	row := map[string]any{
		"price":         []byte("10.50"),
		"purchase_date": time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"quantity":      int64(3),
	}
	normalizeRow(purchases, row)

	require.Equal(t, 10.5, row["price"])
	require.Equal(t, "2024-05-01", row["purchase_date"])
	require.Equal(t, int64(3), row["quantity"])
}

func TestNormalizeRowKeepsTextColumnsAsText(t *testing.T) {
	t.Parallel()

	// lib/pq scans TEXT as []byte too; content that parses as a number
	// must not be rewritten, or "0612345678" loses its leading zero.
	row := map[string]any{
		"name":    []byte("42"),
		"email":   []byte("bob@x.com"),
		"phone":   []byte("0612345678"),
		"address": nil,
	}
	normalizeRow(clientsKind(t), row)

	require.Equal(t, "42", row["name"])
	require.Equal(t, "bob@x.com", row["email"])
	require.Equal(t, "0612345678", row["phone"])
	require.Nil(t, row["address"])
}
