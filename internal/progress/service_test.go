// AngelaMos | 2026
// service_test.go

package progress

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type fakeRepo struct {
	snapshots []MemberProgress
}

func (f *fakeRepo) Create(_ context.Context, s *MemberProgress) error {
	f.snapshots = append(f.snapshots, *s)
	return nil
}

func (f *fakeRepo) Latest(_ context.Context, _ string) (*MemberProgress, error) {
	if len(f.snapshots) == 0 {
		return nil, core.ErrNotFound
	}
	return &f.snapshots[len(f.snapshots)-1], nil
}

func (f *fakeRepo) First(_ context.Context, _ string) (*MemberProgress, error) {
	if len(f.snapshots) == 0 {
		return nil, core.ErrNotFound
	}
	return &f.snapshots[0], nil
}

func (f *fakeRepo) CountForUser(_ context.Context, _ string) (int64, error) {
	return int64(len(f.snapshots)), nil
}

func (f *fakeRepo) History(
	_ context.Context,
	_ string,
	params store.PageParams,
) (*store.Page[MemberProgress], error) {
	params.Normalize()
	return &store.Page[MemberProgress]{
		Data:       f.snapshots,
		Pagination: store.NewPagination(params, int64(len(f.snapshots))),
	}, nil
}

type fakeProfiles struct {
	heightCm   float64
	weightKg   float64
	lookupErr  error
	syncHeight float64
	syncWeight float64
	synced     bool
}

func (f *fakeProfiles) Measurements(
	_ context.Context,
	_ string,
) (float64, float64, error) {
	if f.lookupErr != nil {
		return 0, 0, f.lookupErr
	}
	return f.heightCm, f.weightKg, nil
}

func (f *fakeProfiles) UpdateMeasurements(
	_ context.Context,
	_ string,
	heightCm, weightKg float64,
) error {
	f.synced = true
	f.syncHeight = heightCm
	f.syncWeight = weightKg
	return nil
}

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		heightCm float64
		weightKg float64
		want     float64
	}{
		{180, 80, 24.69},
		{165, 70, 25.71},
		{170, 58.5, 20.24},
		{200, 100, 25},
	}

	for _, tt := range tests {
		assert.InDelta(
			t,
			tt.want,
			ComputeBMI(tt.heightCm, tt.weightKg),
			0.001,
			"height=%v weight=%v", tt.heightCm, tt.weightKg,
		)
	}
}

func TestRecordWithExplicitHeight(t *testing.T) {
	repo := &fakeRepo{}
	profiles := &fakeProfiles{}
	svc := NewService(repo, profiles)

	height := 180.0
	snap, err := svc.Record(context.Background(), "u1", RecordRequest{
		WeightKg: 80,
		HeightCm: &height,
	})
	require.NoError(t, err)

	assert.InDelta(t, 24.69, snap.BMI, 0.001)
	assert.Equal(t, 180.0, snap.HeightCm)
	require.Len(t, repo.snapshots, 1)

	assert.True(t, profiles.synced)
	assert.Equal(t, 180.0, profiles.syncHeight)
	assert.Equal(t, 80.0, profiles.syncWeight)
}

func TestRecordFallsBackToProfileHeight(t *testing.T) {
	repo := &fakeRepo{}
	profiles := &fakeProfiles{heightCm: 165}
	svc := NewService(repo, profiles)

	snap, err := svc.Record(context.Background(), "u1", RecordRequest{
		WeightKg: 70,
	})
	require.NoError(t, err)

	assert.Equal(t, 165.0, snap.HeightCm)
	assert.InDelta(t, 25.71, snap.BMI, 0.001)
}

func TestRecordWithoutAnyHeight(t *testing.T) {
	repo := &fakeRepo{}
	profiles := &fakeProfiles{heightCm: 0}
	svc := NewService(repo, profiles)

	_, err := svc.Record(context.Background(), "u1", RecordRequest{
		WeightKg: 70,
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Empty(t, repo.snapshots)
}

func TestRecordUnknownUser(t *testing.T) {
	repo := &fakeRepo{}
	profiles := &fakeProfiles{lookupErr: core.ErrNotFound}
	svc := NewService(repo, profiles)

	_, err := svc.Record(context.Background(), "ghost", RecordRequest{
		WeightKg: 70,
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestRecordUnknownUserWithExplicitHeight(t *testing.T) {
	repo := &fakeRepo{}
	profiles := &fakeProfiles{lookupErr: core.ErrNotFound}
	svc := NewService(repo, profiles)

	// Supplying a height must not bypass the user lookup; the snapshot
	// would otherwise fail on the foreign key and surface as a 500.
	height := 180.0
	_, err := svc.Record(context.Background(), "ghost", RecordRequest{
		WeightKg: 80,
		HeightCm: &height,
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Empty(t, repo.snapshots)
}

func TestSummaryDeltas(t *testing.T) {
	repo := &fakeRepo{}
	profiles := &fakeProfiles{}
	svc := NewService(repo, profiles)

	height := 180.0
	for _, w := range []float64{90, 86.5, 82} {
		_, err := svc.Record(context.Background(), "u1", RecordRequest{
			WeightKg: w,
			HeightCm: &height,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.Snapshots)
	require.NotNil(t, summary.Latest)
	require.NotNil(t, summary.First)
	assert.InDelta(t, -8.0, summary.WeightDelta, 0.001)
	assert.InDelta(t, -2.47, summary.BMIDelta, 0.001)
}

func TestSummaryWithNoSnapshots(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeProfiles{})

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.Snapshots)
	assert.Nil(t, summary.Latest)
	assert.Nil(t, summary.First)
	assert.Zero(t, summary.WeightDelta)
	assert.Zero(t, summary.BMIDelta)
}
