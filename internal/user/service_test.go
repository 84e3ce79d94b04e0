// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/gymstack/internal/auth"
	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type fakeRepo struct {
	users   map[string]*User
	lastSet map[string]any
	getErr  error
}

func newFakeRepo(users ...*User) *fakeRepo {
	m := make(map[string]*User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeRepo{users: m}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(
	_ context.Context,
	id string,
	set map[string]any,
) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	f.lastSet = set
	if v, ok := set["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := set["phone"]; ok {
		u.Phone = v.(string)
	}
	if v, ok := set["height_cm"]; ok {
		u.HeightCm = v.(float64)
	}
	if v, ok := set["weight_kg"]; ok {
		u.WeightKg = v.(float64)
	}
	if v, ok := set["role"]; ok {
		u.Role = v.(string)
	}
	if v, ok := set["status"]; ok {
		u.Status = v.(string)
	}
	if v, ok := set["plan_id"]; ok {
		if v == nil {
			u.PlanID = nil
		} else {
			s := v.(string)
			u.PlanID = &s
		}
	}
	return u, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, _ string) error { return nil }
func (f *fakeRepo) Restore(_ context.Context, _ string) error    { return nil }

func (f *fakeRepo) List(
	_ context.Context,
	params ListUsersParams,
) (*store.Page[User], error) {
	params.Normalize()
	out := []User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return &store.Page[User]{
		Data:       out,
		Pagination: store.NewPagination(params.PageParams, int64(len(out))),
	}, nil
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) EstimatedTotal(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeRepo) CountActive(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeRepo) CountByPlan(_ context.Context) (map[string]int64, error) {
	return nil, nil
}

func TestCreateNormalizesIdentity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	info, err := svc.Create(context.Background(), auth.CreateUserParams{
		Email:        "Ana.Lopez@Example.COM",
		Username:     "AnaLopez",
		PasswordHash: "hash",
		Name:         "Ana Lopez",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana.lopez@example.com", info.Email)
	assert.Equal(t, "analopez", info.Username)
	assert.Equal(t, RoleMember, info.Role)
	assert.Equal(t, StatusActive, info.Status)
	assert.NotEmpty(t, info.ID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newFakeRepo(&User{ID: "u1", Email: "ana.lopez@example.com"})
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), auth.CreateUserParams{
		Email:        "Ana.Lopez@Example.COM",
		Username:     "analopez2",
		PasswordHash: "hash",
		Name:         "Ana Lopez",
	})

	require.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.Len(t, repo.users, 1)
}

func TestUpdateProfileSetMap(t *testing.T) {
	repo := newFakeRepo(&User{ID: "u1", Name: "Old", Phone: "111"})
	svc := NewService(repo)

	name := "New"
	resp, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{
		Name: &name,
	})
	require.NoError(t, err)

	assert.Equal(t, "New", resp.Name)
	assert.Equal(t, "111", resp.Phone)

	// Only the provided field reaches the write.
	assert.Contains(t, repo.lastSet, "name")
	assert.NotContains(t, repo.lastSet, "phone")
	assert.NotContains(t, repo.lastSet, "height_cm")
	assert.NotContains(t, repo.lastSet, "weight_kg")
}

func TestUpdateProfileEmptyRequestReadsBack(t *testing.T) {
	repo := newFakeRepo(&User{ID: "u1", Name: "Unchanged"})
	svc := NewService(repo)

	resp, err := svc.UpdateProfile(
		context.Background(),
		"u1",
		UpdateProfileRequest{},
	)
	require.NoError(t, err)

	assert.Equal(t, "Unchanged", resp.Name)
	assert.Nil(t, repo.lastSet)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := NewService(newFakeRepo())

	name := "X"
	_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileRequest{
		Name: &name,
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeRepo(&User{ID: "u1"}))

	_, err := svc.SetRole(context.Background(), "u1", "owner")

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestSetStatus(t *testing.T) {
	repo := newFakeRepo(&User{ID: "u1", Status: StatusActive})
	svc := NewService(repo)

	resp, err := svc.SetStatus(context.Background(), "u1", StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, resp.Status)

	_, err = svc.SetStatus(context.Background(), "u1", "banned")
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestAssignAndClearPlan(t *testing.T) {
	repo := newFakeRepo(&User{ID: "u1"})
	svc := NewService(repo)
	ctx := context.Background()

	planID := "plan-9"
	resp, err := svc.AssignPlan(ctx, "u1", &planID)
	require.NoError(t, err)
	require.NotNil(t, resp.PlanID)
	assert.Equal(t, "plan-9", *resp.PlanID)

	resp, err = svc.AssignPlan(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Nil(t, resp.PlanID)
}

func TestCanDeleteUser(t *testing.T) {
	admin := &User{ID: "admin-1", Role: RoleAdmin}
	otherAdmin := &User{ID: "admin-2", Role: RoleAdmin}
	staff := &User{ID: "staff-1", Role: RoleStaff}
	member := &User{ID: "member-1", Role: RoleMember}

	svc := NewService(newFakeRepo(admin, otherAdmin, staff, member))
	ctx := context.Background()

	// Self-deletion is always allowed.
	assert.NoError(t, svc.CanDeleteUser(ctx, "member-1", "member-1"))

	// Admins may delete non-admins.
	assert.NoError(t, svc.CanDeleteUser(ctx, "admin-1", "member-1"))
	assert.NoError(t, svc.CanDeleteUser(ctx, "admin-1", "staff-1"))

	// Staff cannot delete others.
	err := svc.CanDeleteUser(ctx, "staff-1", "member-1")
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)

	// Admins cannot delete each other.
	err = svc.CanDeleteUser(ctx, "admin-1", "admin-2")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}

func TestMeasurementsRoundTrip(t *testing.T) {
	repo := newFakeRepo(&User{ID: "u1", HeightCm: 180, WeightKg: 80})
	svc := NewService(repo)
	ctx := context.Background()

	h, w, err := svc.Measurements(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 180.0, h)
	assert.Equal(t, 80.0, w)

	require.NoError(t, svc.UpdateMeasurements(ctx, "u1", 180, 78.5))

	_, w, err = svc.Measurements(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 78.5, w)
}
