// AngelaMos | 2026
// entity.go

package equipment

import (
	"time"
)

type Equipment struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Category  string     `db:"category"`
	Status    string     `db:"status"`
	Notes     string     `db:"notes"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

const (
	StatusOperational = "operational"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

var Columns = []string{
	"id",
	"name",
	"category",
	"status",
	"notes",
}
