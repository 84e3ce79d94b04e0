// AngelaMos | 2026
// service_test.go

package attendance

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

// fakeRepo keeps visits in memory and enforces the single-open-visit rule
// under a lock, the way the conditional insert does in the database.
type fakeRepo struct {
	mu      sync.Mutex
	open    map[string]*AttendanceRecord
	closed  []AttendanceRecord
	entries []AccessLogEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{open: make(map[string]*AttendanceRecord)}
}

func (f *fakeRepo) CheckIn(
	_ context.Context,
	userID, source string,
) (*AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.open[userID]; exists {
		return nil, core.ErrConflict
	}

	record := &AttendanceRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		CheckedInAt: time.Now(),
		Source:      source,
	}
	f.open[userID] = record
	return record, nil
}

func (f *fakeRepo) CloseOpen(
	_ context.Context,
	userID string,
) (*AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.open[userID]
	if !exists {
		return nil, core.ErrNotFound
	}

	now := time.Now()
	record.CheckedOutAt = &now
	delete(f.open, userID)
	f.closed = append(f.closed, *record)
	return record, nil
}

func (f *fakeRepo) GetOpen(
	_ context.Context,
	userID string,
) (*AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.open[userID]
	if !exists {
		return nil, core.ErrNotFound
	}
	return record, nil
}

func (f *fakeRepo) History(
	_ context.Context,
	_ string,
	params HistoryParams,
) (*store.Page[AttendanceRecord], error) {
	params.Normalize()
	return &store.Page[AttendanceRecord]{
		Data:       f.closed,
		Pagination: store.NewPagination(params.PageParams, int64(len(f.closed))),
	}, nil
}

func (f *fakeRepo) CurrentOccupancy(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.open)), nil
}

func (f *fakeRepo) LogAccess(_ context.Context, entry *AccessLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepo) AccessLog(
	_ context.Context,
	params store.PageParams,
) (*store.Page[AccessLogEntry], error) {
	params.Normalize()
	return &store.Page[AccessLogEntry]{
		Data:       f.entries,
		Pagination: store.NewPagination(params, int64(len(f.entries))),
	}, nil
}

func TestCheckInAndOut(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, "u1", SourceKiosk)
	require.NoError(t, err)
	assert.Equal(t, SourceKiosk, record.Source)
	assert.Nil(t, record.CheckedOutAt)

	occupancy, err := svc.Occupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), occupancy.Current)

	closed, err := svc.CheckOut(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, closed.CheckedOutAt)

	occupancy, err = svc.Occupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), occupancy.Current)
}

func TestCheckInDefaultsSource(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	record, err := svc.CheckIn(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, SourceFrontDesk, record.Source)
}

func TestDoubleCheckInConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "u1", SourceApp)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, "u1", SourceApp)
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Already checked in", appErr.Message)
}

func TestCheckOutWithoutVisit(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CheckOut(context.Background(), "u1")
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "No active check-in found", appErr.Message)
}

func TestCurrentVisitWithoutVisit(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CurrentVisit(context.Background(), "u1")
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestConcurrentCheckInsAdmitOne(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, "u1", SourceKiosk)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	conflicts := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Status)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestAccessTrail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "u1", SourceApp)
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, "u1", SourceApp)
	require.Error(t, err)
	_, err = svc.CheckOut(ctx, "u1")
	require.NoError(t, err)

	require.Len(t, repo.entries, 3)
	assert.Equal(t, EventCheckIn, repo.entries[0].Event)
	assert.Equal(t, EventDenied, repo.entries[1].Event)
	assert.Equal(t, EventCheckOut, repo.entries[2].Event)
}
