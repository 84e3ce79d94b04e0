// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is one link in a rotation chain. The raw token never
// touches the database; only its sha256 digest is stored.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

var Columns = []string{
	"id",
	"user_id",
	"token_hash",
	"family_id",
	"expires_at",
	"user_agent",
	"ip_address",
}

func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Active reports whether the token can still be exchanged: not spent,
// not revoked, not past its expiry.
func (t *RefreshToken) Active() bool {
	return !t.IsUsed && t.RevokedAt == nil && !t.Expired()
}
