package attendee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/healthcard/orientation/internal/models"
	"github.com/healthcard/orientation/internal/timeutil"
	"github.com/healthcard/orientation/session"
)

func ptr(t time.Time) *time.Time {
	return &t
}

func TestResolve(t *testing.T) {
	day := time.Date(2025, 1, 28, 0, 0, 0, 0, timeutil.Reference)
	w := &session.Window{Date: day, StartMinutes: 540, EndMinutes: 720}

	before := day.Add(8 * time.Hour)
	during := day.Add(10 * time.Hour)
	after := day.Add(13 * time.Hour)

	in := ptr(day.Add(9*time.Hour + 5*time.Minute))
	out := ptr(day.Add(11*time.Hour + 55*time.Minute))

	cases := []struct {
		Name     string
		CheckIn  *time.Time
		CheckOut *time.Time
		Window   *session.Window
		Now      time.Time
		Want     Status
	}{
		{"checked in, window not ended", in, nil, w, during, CheckedIn},
		{"checked in, window ended", in, nil, w, after, CheckedIn},
		{"neither, window ended", nil, nil, w, after, Missed},
		{"neither, window at end instant", nil, nil, w, w.End(), Missed},
		{"neither, window active", nil, nil, w, during, Pending},
		{"neither, window upcoming", nil, nil, w, before, Pending},
		{"neither, no window", nil, nil, nil, after, Pending},
		{"orphaned check-out", nil, out, w, after, Completed},
		{"checked in, no window", in, nil, nil, after, CheckedIn},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, Resolve(tc.CheckIn, tc.CheckOut, tc.Window, tc.Now))
		})
	}
}

func TestResolveCompletedIgnoresWindow(t *testing.T) {
	day := time.Date(2025, 1, 28, 0, 0, 0, 0, timeutil.Reference)
	in := ptr(day.Add(9 * time.Hour))
	out := ptr(day.Add(11 * time.Hour))

	windows := []*session.Window{
		nil,
		{Date: day, StartMinutes: 540, EndMinutes: 720},
		{Date: day.AddDate(0, 0, 3), StartMinutes: 0, EndMinutes: 1},
	}

	for _, w := range windows {
		for _, now := range []time.Time{day, day.Add(10 * time.Hour), day.AddDate(0, 1, 0)} {
			assert.Equal(t, Completed, Resolve(in, out, w, now))
		}
	}
}

func TestValidate(t *testing.T) {
	in := time.Date(2025, 1, 28, 9, 0, 0, 0, timeutil.Reference)

	ok := &models.Attendee{Identity: "a", CheckInTime: &in, CheckOutTime: ptr(in.Add(time.Hour))}
	assert.NoError(t, Validate(ok))

	d, found := Duration(ok)
	assert.True(t, found)
	assert.Equal(t, time.Hour, d)

	bad := &models.Attendee{Identity: "b", CheckInTime: &in, CheckOutTime: ptr(in.Add(-time.Minute))}
	assert.ErrorIs(t, Validate(bad), errCheckOutBeforeCheckIn)

	_, found = Duration(&models.Attendee{CheckOutTime: &in})
	assert.False(t, found)
}
