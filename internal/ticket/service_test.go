// AngelaMos | 2026
// service_test.go

package ticket

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
	tickets map[string]*SupportTicket
	replies map[string][]TicketReply
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tickets: make(map[string]*SupportTicket),
		replies: make(map[string][]TicketReply),
	}
}

func (f *fakeRepo) Create(_ context.Context, t *SupportTicket) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.tickets[t.ID] = t
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*SupportTicket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListTicketsParams,
) (*store.Page[SupportTicket], error) {
	params.Normalize()
	out := []SupportTicket{}
	for _, t := range f.tickets {
		if params.Status == "" || t.Status == params.Status {
			out = append(out, *t)
		}
	}
	return &store.Page[SupportTicket]{
		Data:       out,
		Pagination: store.NewPagination(params.PageParams, int64(len(out))),
	}, nil
}

func (f *fakeRepo) ListForUser(
	_ context.Context,
	userID string,
	params ListTicketsParams,
) (*store.Page[SupportTicket], error) {
	params.Normalize()
	out := []SupportTicket{}
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return &store.Page[SupportTicket]{
		Data:       out,
		Pagination: store.NewPagination(params.PageParams, int64(len(out))),
	}, nil
}

func (f *fakeRepo) Close(_ context.Context, id string) error {
	t, ok := f.tickets[id]
	if !ok || t.Status != StatusOpen {
		return core.ErrNotFound
	}
	now := time.Now()
	t.Status = StatusClosed
	t.ClosedAt = &now
	return nil
}

func (f *fakeRepo) Reopen(_ context.Context, id string) error {
	t, ok := f.tickets[id]
	if !ok || t.Status != StatusClosed {
		return core.ErrNotFound
	}
	t.Status = StatusOpen
	t.ClosedAt = nil
	return nil
}

func (f *fakeRepo) Touch(_ context.Context, id string) error {
	if t, ok := f.tickets[id]; ok {
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeRepo) AddReply(_ context.Context, reply *TicketReply) error {
	reply.CreatedAt = time.Now()
	f.replies[reply.TicketID] = append(f.replies[reply.TicketID], *reply)
	return nil
}

func (f *fakeRepo) Replies(
	_ context.Context,
	ticketID string,
) ([]TicketReply, error) {
	return f.replies[ticketID], nil
}

func openTicket(t *testing.T, svc *Service, userID string) string {
	t.Helper()
	resp, err := svc.Create(context.Background(), userID, CreateTicketRequest{
		Subject: "Broken locker",
		Body:    "Locker 12 will not open.",
	})
	require.NoError(t, err)
	return resp.ID
}

func TestTicketVisibility(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	id := openTicket(t, svc, "member-1")

	// The owner sees their ticket.
	detail, err := svc.Get(ctx, "member-1", false, id)
	require.NoError(t, err)
	assert.Equal(t, "Broken locker", detail.Subject)

	// Staff see every ticket.
	_, err = svc.Get(ctx, "staff-1", true, id)
	require.NoError(t, err)

	// Another member gets absence, not forbidden, so ids do not leak.
	_, err = svc.Get(ctx, "member-2", false, id)
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestReplyThread(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	id := openTicket(t, svc, "member-1")

	_, err := svc.Reply(ctx, "member-1", false, id, ReplyRequest{
		Body: "Any update?",
	})
	require.NoError(t, err)

	staffReply, err := svc.Reply(ctx, "staff-1", true, id, ReplyRequest{
		Body: "Maintenance is on it.",
	})
	require.NoError(t, err)
	assert.True(t, staffReply.Staff)

	detail, err := svc.Get(ctx, "member-1", false, id)
	require.NoError(t, err)
	require.Len(t, detail.Replies, 2)
	assert.False(t, detail.Replies[0].Staff)
	assert.True(t, detail.Replies[1].Staff)
}

func TestReplyToClosedTicket(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	id := openTicket(t, svc, "member-1")

	require.NoError(t, svc.Close(ctx, "member-1", false, id))

	_, err := svc.Reply(ctx, "member-1", false, id, ReplyRequest{Body: "ping"})
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Ticket is closed", appErr.Message)
}

func TestCloseTwice(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	id := openTicket(t, svc, "member-1")

	require.NoError(t, svc.Close(ctx, "member-1", false, id))

	err := svc.Close(ctx, "member-1", false, id)
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Ticket is already closed", appErr.Message)
}

func TestReopen(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	id := openTicket(t, svc, "member-1")

	// Reopening an open ticket conflicts.
	err := svc.Reopen(ctx, id)
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	require.NoError(t, svc.Close(ctx, "member-1", false, id))
	require.NoError(t, svc.Reopen(ctx, id))

	// The reopened ticket takes replies again.
	_, err = svc.Reply(ctx, "member-1", false, id, ReplyRequest{Body: "back"})
	require.NoError(t, err)
}

func TestUnknownTicket(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), "member-1", false, "ghost")
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
