package job

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextjob/nextjob/internal/store"
)

type fixture struct {
	svc   *Service
	users *store.UserStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	users := store.NewUserStore(rdb)
	return &fixture{svc: NewService(NewStore(rdb), users), users: users}
}

func (f *fixture) employer(t *testing.T, email string) *store.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), "Emp", email, "secret1", store.RoleEmployer)
	require.NoError(t, err)
	return u
}

func (f *fixture) candidate(t *testing.T, email string) *store.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), "Cand", email, "secret1", store.RoleUser)
	require.NoError(t, err)
	return u
}

func sampleInput(title string) Input {
	return Input{
		Title:          title,
		Description:    "Build and operate backend services",
		Category:       "Engineering",
		WorkplaceType:  Remote,
		EmploymentType: FullTime,
		Skills:         []string{"go", "redis"},
		Salary:         Salary{Frequency: Yearly, Amount: 90000},
		Company:        Company{Name: "Acme", Logo: "https://acme.dev/logo.png", Location: "Berlin"},
	}
}

func TestCreateAndGetJoinsEmployer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employer(t, "emp@x.com")

	created, err := f.svc.Create(ctx, emp.ID, sampleInput("Backend Engineer"))
	require.NoError(t, err)

	listing, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", listing.Title)
	require.NotNil(t, listing.Employer)
	assert.Equal(t, emp.ID, listing.Employer.ID)
	assert.Equal(t, "emp@x.com", listing.Employer.Email)
}

func TestGetMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employer(t, "emp@x.com")

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		tick := base.Add(time.Duration(i) * time.Hour)
		f.svc.now = func() time.Time { return tick }
		_, err := f.svc.Create(ctx, emp.ID, sampleInput(title))
		require.NoError(t, err)
	}

	listings, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "third", listings[0].Title)
	assert.Equal(t, "first", listings[2].Title)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.employer(t, "owner@x.com")
	other := f.employer(t, "other@x.com")

	created, err := f.svc.Create(ctx, owner.ID, sampleInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, other.ID, sampleInput("Hijacked"))
	assert.ErrorIs(t, err, ErrJobNotFound)

	updated, err := f.svc.Update(ctx, created.ID, owner.ID, sampleInput("Staff Engineer"))
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Title)
}

func TestDeleteEnforcesOwnershipAndCleansIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.employer(t, "owner@x.com")
	other := f.employer(t, "other@x.com")
	cand := f.candidate(t, "cand@x.com")

	created, err := f.svc.Create(ctx, owner.ID, sampleInput("Backend Engineer"))
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, created.ID, cand.ID)
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, created.ID, other.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = f.svc.Delete(ctx, created.ID, owner.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	applied, err := f.svc.AppliedBy(ctx, cand.ID)
	require.NoError(t, err)
	assert.Empty(t, applied)

	mine, err := f.svc.ByEmployer(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestApplyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.employer(t, "owner@x.com")
	cand := f.candidate(t, "cand@x.com")

	created, err := f.svc.Create(ctx, owner.ID, sampleInput("Backend Engineer"))
	require.NoError(t, err)

	_, err = f.svc.Apply(ctx, created.ID, cand.ID)
	require.NoError(t, err)

	_, err = f.svc.Apply(ctx, created.ID, cand.ID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	applied, err := f.svc.AppliedBy(ctx, cand.ID)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, created.ID, applied[0].ID)
}

func TestApplicantsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.employer(t, "owner@x.com")
	other := f.employer(t, "other@x.com")
	cand := f.candidate(t, "cand@x.com")

	created, err := f.svc.Create(ctx, owner.ID, sampleInput("Backend Engineer"))
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, created.ID, cand.ID)
	require.NoError(t, err)

	_, err = f.svc.Applicants(ctx, created.ID, other.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	applicants, err := f.svc.Applicants(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, cand.ID, applicants[0].ID)
}

func TestApplicantsSkipsDeletedAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.employer(t, "owner@x.com")
	cand := f.candidate(t, "cand@x.com")

	created, err := f.svc.Create(ctx, owner.ID, sampleInput("Backend Engineer"))
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, created.ID, cand.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, cand.ID))

	applicants, err := f.svc.Applicants(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, applicants)
}
