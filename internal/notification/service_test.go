// AngelaMos | 2026
// service_test.go

package notification

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type fakeRepo struct {
	notifications []Notification
}

func (f *fakeRepo) Create(_ context.Context, n *Notification) error {
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeRepo) CreateMany(_ context.Context, ns []Notification) error {
	now := time.Now()
	for i := range ns {
		ns[i].CreatedAt = now
	}
	f.notifications = append(f.notifications, ns...)
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[Notification], error) {
	params.Normalize()
	out := []Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return &store.Page[Notification]{
		Data:       out,
		Pagination: store.NewPagination(params, int64(len(out))),
	}, nil
}

func (f *fakeRepo) UnreadCount(
	_ context.Context,
	userID string,
) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, userID, id string) error {
	for i := range f.notifications {
		n := &f.notifications[i]
		if n.ID == id && n.UserID == userID && n.ReadAt == nil {
			now := time.Now()
			n.ReadAt = &now
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeRepo) MarkAllRead(
	_ context.Context,
	userID string,
) (int64, error) {
	var touched int64
	now := time.Now()
	for i := range f.notifications {
		n := &f.notifications[i]
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &now
			touched++
		}
	}
	return touched, nil
}

func TestNotifyAndUnreadCount(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "u1", "Class booked", "See you there"))
	require.NoError(t, svc.Notify(ctx, "u1", "Plan renewed", ""))
	require.NoError(t, svc.Notify(ctx, "u2", "Welcome", ""))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Unread)
}

func TestMarkRead(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "u1", "Hello", ""))
	id := repo.notifications[0].ID

	require.NoError(t, svc.MarkRead(ctx, "u1", id))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Unread)
}

func TestMarkReadForeignNotification(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "u1", "Hello", ""))
	id := repo.notifications[0].ID

	// Someone else's notification reads as absent, not forbidden.
	err := svc.MarkRead(ctx, "u2", id)
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestMarkAllReadIsIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "u1", "One", ""))
	require.NoError(t, svc.Notify(ctx, "u1", "Two", ""))

	ack, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ack.OK)

	// A second pass with nothing unread still acknowledges.
	ack, err = svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ack.OK)

	// So does a user with no notifications at all.
	ack, err = svc.MarkAllRead(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, ack.OK)
}

func TestBroadcastDeduplicatesRecipients(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	resp, err := svc.Broadcast(
		ctx,
		[]string{"u1", "u2", "u1", "u3"},
		"Holiday hours",
		"Closed Monday",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Sent)
	require.Len(t, repo.notifications, 3)

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Unread)
}

func TestListScopedToUser(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "u1", "Mine", ""))
	require.NoError(t, svc.Notify(ctx, "u2", "Theirs", ""))

	page, err := svc.List(ctx, "u1", store.PageParams{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Mine", page.Data[0].Title)
}
