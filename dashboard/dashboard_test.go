package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthcard/orientation/attendee"
	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
)

func pht(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, timeutil.Reference)
}

func ptr[T any](v T) *T {
	return &v
}

var day = pht(2025, 1, 28, 0, 0)

func slot(id string, start, end int) models.Session {
	return models.Session{
		ScheduleID:   id,
		Date:         day,
		StartMinutes: start,
		EndMinutes:   end,
		Venue:        models.Venue{Name: "Main Hall"},
		TotalSlots:   30,
	}
}

func ids(views []SessionView) []string {
	out := make([]string, len(views))
	for i := range views {
		out[i] = views[i].Session.ScheduleID
	}

	return out
}

func kinds(diags []Diagnostic) []DiagnosticKind {
	out := make([]DiagnosticKind, len(diags))
	for i := range diags {
		out[i] = diags[i].Kind
	}

	return out
}

func TestBuildActiveSession(t *testing.T) {
	s := slot("morning", 540, 720)
	s.Attendees = []models.Attendee{
		{Identity: "A-1", FullName: "Ana", CheckInTime: ptr(pht(2025, 1, 28, 9, 5))},
		{Identity: "A-2", FullName: "Ben"},
		{
			Identity:     "A-3",
			FullName:     "Cara",
			CheckInTime:  ptr(pht(2025, 1, 28, 9, 1)),
			CheckOutTime: ptr(pht(2025, 1, 28, 10, 0)),
		},
	}

	v := Build([]models.Session{s}, pht(2025, 1, 28, 10, 30), Options{})

	require.NotNil(t, v.Current)
	assert.Equal(t, "morning", v.Current.Session.ScheduleID)
	assert.True(t, v.Current.Flags.IsActive)
	assert.Equal(t, "Ends in 1h 30m", v.Current.TimeContext)
	assert.False(t, v.Current.Warning)
	assert.Empty(t, v.Upcoming)
	assert.Empty(t, v.Diagnostics)

	want := Stats{Total: 3, Pending: 1, CheckedIn: 1, Completed: 1}
	if diff := cmp.Diff(want, v.Totals); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, Counts{Active: 1}, v.Counts)
}

func TestBuildEndingSoonWarning(t *testing.T) {
	v := Build([]models.Session{slot("morning", 540, 720)}, pht(2025, 1, 28, 11, 50), Options{})

	require.NotNil(t, v.Current)
	assert.True(t, v.Current.Warning)
	assert.Contains(t, v.Current.TimeContext, "Ending in 10 minutes")
}

func TestBuildPastSessionMarksMissed(t *testing.T) {
	s := slot("morning", 540, 720)
	s.Attendees = []models.Attendee{
		{Identity: "A-1", FullName: "Ana"},
		{Identity: "A-2", FullName: "Ben", CheckInTime: ptr(pht(2025, 1, 28, 9, 5))},
	}

	v := Build([]models.Session{s}, pht(2025, 1, 28, 12, 30), Options{})

	assert.Nil(t, v.Current)
	require.Len(t, v.Sessions, 1)
	assert.Equal(t, "Session ended", v.Sessions[0].TimeContext)

	got := []attendee.Status{v.Sessions[0].Attendees[0].Status, v.Sessions[0].Attendees[1].Status}
	assert.Equal(t, []attendee.Status{attendee.Missed, attendee.CheckedIn}, got)
	assert.Equal(t, 1, v.Totals.Count(attendee.Missed))
}

func TestBuildUpcoming(t *testing.T) {
	sessions := []models.Session{
		slot("late", 900, 960),
		slot("noon", 720, 780),
		slot("early", 600, 660),
		slot("evening", 1080, 1140),
	}

	v := Build(sessions, pht(2025, 1, 28, 8, 0), Options{MaxUpcoming: 2})

	require.NotNil(t, v.Current)
	assert.Equal(t, "early", v.Current.Session.ScheduleID)
	assert.Equal(t, "Starts in 2h 0m", v.Current.TimeContext)
	assert.Equal(t, []string{"noon", "late"}, ids(v.Upcoming))
	assert.Equal(t, []string{"early", "noon", "late", "evening"}, ids(v.Sessions))
	assert.Equal(t, 4, v.Counts.Upcoming)
}

func TestBuildCurrentExcludedFromUpcoming(t *testing.T) {
	sessions := []models.Session{
		slot("morning", 540, 720),
		slot("afternoon", 780, 900),
	}

	v := Build(sessions, pht(2025, 1, 28, 10, 0), Options{})

	require.NotNil(t, v.Current)
	assert.Equal(t, "morning", v.Current.Session.ScheduleID)
	assert.Equal(t, []string{"afternoon"}, ids(v.Upcoming))
}

func TestBuildOverlappingActive(t *testing.T) {
	sessions := []models.Session{
		slot("b", 600, 720),
		slot("a", 540, 720),
	}

	v := Build(sessions, pht(2025, 1, 28, 10, 30), Options{})

	require.NotNil(t, v.Current)
	assert.Equal(t, "a", v.Current.Session.ScheduleID)
	assert.Equal(t, 2, v.Counts.Active)

	require.Len(t, v.Diagnostics, 1)
	assert.Equal(t, DiagOverlappingActive, v.Diagnostics[0].Kind)
	assert.Equal(t, "a", v.Diagnostics[0].ScheduleID)
	assert.Contains(t, v.Diagnostics[0].Message, "a, b")
}

func TestBuildEqualStartTieBreak(t *testing.T) {
	stale := slot("a", 540, 720)
	stale.IsPast = ptr(true)

	fresh := slot("b", 540, 720)

	v := Build([]models.Session{stale, fresh}, pht(2025, 1, 28, 8, 0), Options{})

	require.NotNil(t, v.Current)
	assert.Equal(t, "b", v.Current.Session.ScheduleID)
	assert.Equal(t, []string{"b", "a"}, ids(v.Sessions))
}

func TestBuildHintDivergence(t *testing.T) {
	cases := []struct {
		Name       string
		IsUpcoming *bool
		IsPast     *bool
		Now        time.Time
		Want       []DiagnosticKind
	}{
		{
			Name:       "upcoming hint on active session is lag",
			IsUpcoming: ptr(true),
			Now:        pht(2025, 1, 28, 10, 0),
			Want:       []DiagnosticKind{},
		},
		{
			Name:       "upcoming hint on ended session",
			IsUpcoming: ptr(true),
			Now:        pht(2025, 1, 28, 13, 0),
			Want:       []DiagnosticKind{DiagHintDivergence},
		},
		{
			Name:   "past hint on active session",
			IsPast: ptr(true),
			Now:    pht(2025, 1, 28, 10, 0),
			Want:   []DiagnosticKind{DiagHintDivergence},
		},
		{
			Name:   "matching past hint",
			IsPast: ptr(true),
			Now:    pht(2025, 1, 28, 13, 0),
			Want:   []DiagnosticKind{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			s := slot("morning", 540, 720)
			s.IsUpcoming = tc.IsUpcoming
			s.IsPast = tc.IsPast

			v := Build([]models.Session{s}, tc.Now, Options{})

			assert.Equal(t, tc.Want, kinds(v.Diagnostics))
		})
	}
}

func TestBuildHintsNeverOverrideClock(t *testing.T) {
	s := slot("morning", 540, 720)
	s.IsUpcoming = ptr(true)
	s.IsPast = ptr(false)

	v := Build([]models.Session{s}, pht(2025, 1, 28, 12, 0), Options{})

	assert.Nil(t, v.Current)
	assert.True(t, v.Sessions[0].Flags.IsPast)
}

func TestBuildInvalidWindow(t *testing.T) {
	s := slot("broken", 720, 540)
	s.Attendees = []models.Attendee{{Identity: "A-1", FullName: "Ana"}}

	v := Build([]models.Session{s, slot("ok", 780, 840)}, pht(2025, 1, 28, 8, 0), Options{})

	require.NotNil(t, v.Current)
	assert.Equal(t, "ok", v.Current.Session.ScheduleID)

	var broken SessionView
	for _, sv := range v.Sessions {
		if sv.Session.ScheduleID == "broken" {
			broken = sv
		}
	}

	assert.True(t, broken.Invalid)
	assert.True(t, broken.Flags.IsPast)
	assert.Equal(t, attendee.Pending, broken.Attendees[0].Status)
	assert.Equal(t, []DiagnosticKind{DiagInvalidWindow}, kinds(v.Diagnostics))
}

func TestBuildInvalidAttendee(t *testing.T) {
	s := slot("morning", 540, 720)
	s.Attendees = []models.Attendee{{
		Identity:     "A-1",
		FullName:     "Ana",
		CheckInTime:  ptr(pht(2025, 1, 28, 10, 0)),
		CheckOutTime: ptr(pht(2025, 1, 28, 9, 0)),
	}}

	v := Build([]models.Session{s}, pht(2025, 1, 28, 10, 30), Options{})

	assert.Equal(t, []DiagnosticKind{DiagInvalidAttendee}, kinds(v.Diagnostics))
	assert.Equal(t, attendee.Completed, v.Sessions[0].Attendees[0].Status)
}

func TestBuildAttendeeOrder(t *testing.T) {
	s := slot("morning", 540, 720)
	s.Attendees = []models.Attendee{
		{Identity: "3", FullName: "Guest 10"},
		{Identity: "2", FullName: "Guest 2"},
		{Identity: "1", FullName: "Guest 2"},
	}

	v := Build([]models.Session{s}, pht(2025, 1, 28, 8, 0), Options{})

	got := make([]string, 0, 3)
	for _, a := range v.Sessions[0].Attendees {
		got = append(got, a.Identity)
	}

	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestBuildEmpty(t *testing.T) {
	v := Build(nil, pht(2025, 1, 28, 8, 0), Options{})

	assert.Nil(t, v.Current)
	assert.Empty(t, v.Sessions)
	assert.NotNil(t, v.Upcoming)
	assert.Equal(t, Stats{}, v.Totals)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	sessions := []models.Session{slot("b", 600, 660), slot("a", 540, 600)}
	sessions[0].Attendees = []models.Attendee{{Identity: "2", FullName: "Z"}, {Identity: "1", FullName: "A"}}

	Build(sessions, pht(2025, 1, 28, 8, 0), Options{})

	assert.Equal(t, []string{"b", "a"}, []string{sessions[0].ScheduleID, sessions[1].ScheduleID})
	assert.Equal(t, "2", sessions[0].Attendees[0].Identity)
}

type fakeClock struct {
	now      time.Time
	synced   bool
	mu       sync.Mutex
	todayErr error
}

func (c *fakeClock) set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

func (c *fakeClock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.synced {
		return time.Time{}, errors.New("not synced")
	}

	return c.now, nil
}

func (c *fakeClock) Display() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now, c.synced
}

func (c *fakeClock) Today() (time.Time, error) {
	now, err := c.Now()
	if err != nil {
		return time.Time{}, err
	}

	return timeutil.StartOfReferenceDay(now), nil
}

type fakeSource struct {
	err      error
	sessions []models.Session
	days     []time.Time
}

func (s *fakeSource) Sessions(_ context.Context, day time.Time) ([]models.Session, error) {
	s.days = append(s.days, day)

	if s.err != nil {
		return nil, s.err
	}

	return s.sessions, nil
}

func TestEngineLoadingUntilSnapshot(t *testing.T) {
	clk := &fakeClock{now: pht(2025, 1, 28, 10, 30), synced: true}
	e := NewEngine(&fakeSource{}, clk)

	v := e.Compute(0)
	assert.True(t, v.Loading)
	assert.Nil(t, v.Current)
}

func TestEngineRefreshAndRecompute(t *testing.T) {
	ctx := context.Background()

	clk := &fakeClock{now: pht(2025, 1, 28, 10, 30), synced: true}
	src := &fakeSource{sessions: []models.Session{slot("morning", 540, 720)}}
	e := NewEngine(src, clk)

	var got []View
	e.Subscribe(func(v View) {
		got = append(got, v)
	})

	require.NoError(t, e.Refresh(ctx, 1))
	require.NoError(t, e.Recompute(ctx, 1))

	require.Len(t, src.days, 1)
	assert.True(t, src.days[0].Equal(day))

	require.Len(t, got, 1)
	require.NotNil(t, got[0].Current)
	assert.Equal(t, "Ends in 1h 30m", got[0].Current.TimeContext)
	assert.Equal(t, uint64(1), got[0].Tick)

	clk.set(pht(2025, 1, 28, 11, 50))
	require.NoError(t, e.Recompute(ctx, 2))

	latest, ok := e.Latest()
	require.True(t, ok)
	assert.True(t, latest.Current.Warning)

	clk.set(pht(2025, 1, 28, 12, 0))
	require.NoError(t, e.Recompute(ctx, 3))

	latest, _ = e.Latest()
	assert.Nil(t, latest.Current)
	assert.Equal(t, 1, latest.Counts.Past)
}

func TestEngineRefreshFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()

	clk := &fakeClock{now: pht(2025, 1, 28, 10, 30), synced: true}
	src := &fakeSource{sessions: []models.Session{slot("morning", 540, 720)}}
	e := NewEngine(src, clk)

	require.NoError(t, e.Refresh(ctx, 1))

	src.err = errors.New("connection reset")
	err := e.Refresh(ctx, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, src.err)

	v := e.Compute(2)
	require.NotNil(t, v.Current)
	assert.Equal(t, "morning", v.Current.Session.ScheduleID)
}

func TestEngineUnverifiedClock(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{sessions: []models.Session{slot("morning", 540, 720)}}

	t.Run("blocked", func(t *testing.T) {
		clk := &fakeClock{now: pht(2025, 1, 28, 10, 30)}
		e := NewEngine(src, clk)

		require.NoError(t, e.Refresh(ctx, 1))
		v := e.Compute(1)
		assert.True(t, v.Loading)
		assert.False(t, v.Verified)
	})

	t.Run("allowed", func(t *testing.T) {
		clk := &fakeClock{now: pht(2025, 1, 28, 10, 30)}
		e := NewEngine(src, clk, WithUnverified(true))

		require.NoError(t, e.Refresh(ctx, 1))
		v := e.Compute(1)
		assert.False(t, v.Loading)
		assert.False(t, v.Verified)
		require.NotNil(t, v.Current)
	})
}

func TestEnginePinnedDay(t *testing.T) {
	clk := &fakeClock{now: pht(2025, 1, 28, 10, 30), synced: true}
	src := &fakeSource{}
	e := NewEngine(src, clk, WithDay(pht(2025, 2, 3, 15, 0)))

	require.NoError(t, e.Refresh(context.Background(), 1))
	require.Len(t, src.days, 1)
	assert.True(t, src.days[0].Equal(pht(2025, 2, 3, 0, 0)))
}
