// AngelaMos | 2026
// repository_test.go

package attendance

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/angelamos/gymstack/internal/core"
)

func TestClassifyCheckInError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "guard blocked the insert",
			err:  sql.ErrNoRows,
			want: core.ErrConflict,
		},
		{
			name: "concurrent loser hit the open-visit index",
			err: fmt.Errorf("scan: %w", &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "attendance_one_open_visit",
			}),
			want: core.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyCheckInError(tt.err), tt.want)
		})
	}
}

func TestClassifyCheckInErrorPassesThroughOthers(t *testing.T) {
	cause := errors.New("connection reset")

	err := classifyCheckInError(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, core.ErrConflict)
}
