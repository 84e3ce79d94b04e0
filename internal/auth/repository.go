// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	GetActiveSessionsForUser(
		ctx context.Context,
		userID string,
	) ([]RefreshToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// repository keeps the raw handle alongside the generic store for the
// one sweep query the equality-only filter cannot express.
type repository struct {
	tokens store.Store[RefreshToken]
	db     core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		tokens: store.New[RefreshToken](db, "refresh_tokens", Columns),
		db:     db,
	}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	if err := r.tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	token, err := r.tokens.FindOne(ctx, store.Query{
		Filter: store.Filter{"token_hash": tokenHash},
	})
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return token, nil
}

func (r *repository) FindByID(
	ctx context.Context,
	id string,
) (*RefreshToken, error) {
	token, err := r.tokens.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return token, nil
}

// MarkAsUsed spends the token exactly once. A second caller races past
// the is_used guard, matches nothing, and gets not found.
func (r *repository) MarkAsUsed(
	ctx context.Context,
	id, replacedByID string,
) error {
	rows, err := r.tokens.UpdateMany(ctx,
		store.Query{Filter: store.Filter{"id": id, "is_used": false}},
		map[string]any{
			"is_used":        true,
			"used_at":        time.Now(),
			"replaced_by_id": replacedByID,
		},
	)
	if err != nil {
		return fmt.Errorf("mark refresh token used: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("mark refresh token used: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	rows, err := r.tokens.UpdateMany(ctx,
		store.Query{Filter: store.Filter{"id": id, "revoked_at": nil}},
		map[string]any{"revoked_at": time.Now()},
	)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) RevokeByFamilyID(
	ctx context.Context,
	familyID string,
) error {
	_, err := r.tokens.UpdateMany(ctx,
		store.Query{Filter: store.Filter{"family_id": familyID, "revoked_at": nil}},
		map[string]any{"revoked_at": time.Now()},
	)
	if err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}
	return nil
}

func (r *repository) RevokeAllForUser(
	ctx context.Context,
	userID string,
) error {
	_, err := r.tokens.UpdateMany(ctx,
		store.Query{Filter: store.Filter{"user_id": userID, "revoked_at": nil}},
		map[string]any{"revoked_at": time.Now()},
	)
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *repository) GetActiveSessionsForUser(
	ctx context.Context,
	userID string,
) ([]RefreshToken, error) {
	tokens, err := r.tokens.Find(ctx, store.Query{
		Filter: store.Filter{
			"user_id":    userID,
			"revoked_at": nil,
			"is_used":    false,
		},
		Sort: "created_at DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	// Expiry is a range condition, so expired rows are dropped here
	// rather than in the filter. DeleteExpired keeps the set small.
	active := tokens[:0]
	for _, t := range tokens {
		if !t.Expired() {
			active = append(active, t)
		}
	}

	return active, nil
}

// DeleteExpired purges tokens a day past expiry. The grace period keeps
// reuse detection working for chains that expired mid-rotation.
func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-24 * time.Hour)

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return rows, nil
}
