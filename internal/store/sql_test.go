// AngelaMos | 2026
// sql_test.go

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhereEmpty(t *testing.T) {
	clause, args := buildWhere(nil, nil)
	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)

	clause, args = buildWhere(Filter{}, nil)
	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)
}

func TestBuildWhereDeterministicOrder(t *testing.T) {
	f := Filter{"role": "member", "email": "a@b.c", "status": "active"}

	clause, args := buildWhere(f, nil)

	// Columns sort alphabetically so the same filter always renders the
	// same SQL and hits the same prepared statement.
	assert.Equal(t, "email = $1 AND role = $2 AND status = $3", clause)
	assert.Equal(t, []any{"a@b.c", "member", "active"}, args)
}

func TestBuildWhereNullSemantics(t *testing.T) {
	f := Filter{
		"deleted_at": nil,
		"plan_id":    NotNull,
		"status":     "active",
	}

	clause, args := buildWhere(f, nil)

	assert.Equal(
		t,
		"deleted_at IS NULL AND plan_id IS NOT NULL AND status = $1",
		clause,
	)
	assert.Equal(t, []any{"active"}, args)
}

func TestBuildWhereContinuesArgNumbering(t *testing.T) {
	clause, args := buildWhere(Filter{"id": "x"}, []any{"prior"})

	assert.Equal(t, "id = $2", clause)
	assert.Equal(t, []any{"prior", "x"}, args)
}

func TestBuildSet(t *testing.T) {
	clause, args := buildSet(map[string]any{
		"name":   "Ana",
		"status": "active",
	}, 1)

	assert.Equal(t, "name = $1, status = $2", clause)
	assert.Equal(t, []any{"Ana", "active"}, args)
}

func TestBuildSetNilBecomesNull(t *testing.T) {
	clause, args := buildSet(map[string]any{
		"plan_id":   nil,
		"updated_x": "v",
	}, 1)

	assert.Equal(t, "plan_id = NULL, updated_x = $1", clause)
	assert.Equal(t, []any{"v"}, args)
}

func TestBuildSetArgStart(t *testing.T) {
	clause, args := buildSet(map[string]any{"weight_kg": 80.0}, 3)

	assert.Equal(t, "weight_kg = $3", clause)
	assert.Equal(t, []any{80.0}, args)
}

func TestNotDeleted(t *testing.T) {
	f := NotDeleted(Filter{"status": "active"})
	assert.Nil(t, f["deleted_at"])
	assert.Equal(t, "active", f["status"])

	f = NotDeleted(nil)
	clause, _ := buildWhere(f, nil)
	assert.Equal(t, "deleted_at IS NULL", clause)
}
