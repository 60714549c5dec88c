package clock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthcard/orientation/internal/testutil"
	"github.com/healthcard/orientation/internal/timeutil"
)

type fakeAuthority struct {
	server   time.Time
	dayStart time.Time
	err      error
	dayErr   error
}

func (a *fakeAuthority) ServerTime(context.Context) (time.Time, error) {
	return a.server, a.err
}

func (a *fakeAuthority) ReferenceDayStart(context.Context) (time.Time, error) {
	return a.dayStart, a.dayErr
}

func serverInstant() time.Time {
	return time.Date(2025, 1, 28, 8, 45, 0, 0, timeutil.Reference)
}

func TestNowBeforeSync(t *testing.T) {
	c := New()

	_, err := c.Now()
	assert.ErrorIs(t, err, ErrNotSynced)
	assert.False(t, c.Synced())

	_, err = c.Today()
	assert.ErrorIs(t, err, ErrNotSynced)

	_, verified := c.Display()
	assert.False(t, verified)
}

func TestNowIgnoresTamperedLocalClock(t *testing.T) {
	// The device claims to be a week ahead of the authority.
	local := testutil.NewClock(serverInstant().AddDate(0, 0, 7))
	c := New(WithLocal(local.Now))

	err := c.Sync(context.Background(), &fakeAuthority{
		server:   serverInstant(),
		dayStart: timeutil.StartOfReferenceDay(serverInstant()),
	})
	require.NoError(t, err)

	now, err := c.Now()
	require.NoError(t, err)
	assert.True(t, serverInstant().Equal(now))

	local.Advance(90 * time.Second)

	now, err = c.Now()
	require.NoError(t, err)
	assert.True(t, serverInstant().Add(90*time.Second).Equal(now))

	display, verified := c.Display()
	assert.True(t, verified)
	assert.True(t, now.Equal(display))
}

func TestSyncFailureLeavesClockUnsynced(t *testing.T) {
	c := New()

	err := c.Sync(context.Background(), &fakeAuthority{err: errors.New("offline")})
	assert.ErrorIs(t, err, errFetchServerTime)
	assert.False(t, c.Synced())
}

func TestSyncFallsBackToLocalDayStart(t *testing.T) {
	local := testutil.NewClock(time.Unix(0, 0))
	c := New(WithLocal(local.Now))

	err := c.Sync(context.Background(), &fakeAuthority{
		server: serverInstant(),
		dayErr: errors.New("not found"),
	})
	require.NoError(t, err)

	today, err := c.Today()
	require.NoError(t, err)
	assert.True(t, timeutil.StartOfReferenceDay(serverInstant()).Equal(today))
}

func TestTodayRollsOverAfterMidnight(t *testing.T) {
	local := testutil.NewClock(time.Unix(0, 0))
	c := New(WithLocal(local.Now))

	require.NoError(t, c.Sync(context.Background(), &fakeAuthority{
		server:   serverInstant(),
		dayStart: timeutil.StartOfReferenceDay(serverInstant()),
	}))

	local.Advance(16 * time.Hour)

	today, err := c.Today()
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 1, 29, 0, 0, 0, 0, timeutil.Reference).Equal(today))
}

func TestOnSyncFiresOnce(t *testing.T) {
	c := New()

	var calls int
	c.OnSync(func() { calls++ })

	auth := &fakeAuthority{server: serverInstant(), dayStart: timeutil.StartOfReferenceDay(serverInstant())}

	require.NoError(t, c.Sync(context.Background(), auth))
	require.NoError(t, c.Sync(context.Background(), auth))
	assert.Equal(t, 1, calls)

	c.OnSync(func() { calls++ })
	assert.Equal(t, 2, calls)
}

func TestHTTPAuthority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case serverTimePath:
			fmt.Fprintf(w, `{"serverInstant": %d}`, serverInstant().UnixMilli())
		case todayPath:
			fmt.Fprintf(w, `{"referenceDayStart": %d}`, timeutil.StartOfReferenceDay(serverInstant()).UnixMilli())
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	a := NewHTTPAuthority(srv.URL+"/", time.Second)

	got, err := a.ServerTime(context.Background())
	require.NoError(t, err)
	assert.True(t, serverInstant().Equal(got))

	day, err := a.ReferenceDayStart(context.Background())
	require.NoError(t, err)
	assert.True(t, timeutil.StartOfReferenceDay(serverInstant()).Equal(day))
}

func TestHTTPAuthorityErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == serverTimePath {
			fmt.Fprint(w, `{}`)
			return
		}

		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	a := NewHTTPAuthority(srv.URL, time.Second)

	_, err := a.ServerTime(context.Background())
	assert.ErrorIs(t, err, errAuthorityPayload)

	_, err = a.ReferenceDayStart(context.Background())
	assert.ErrorIs(t, err, errAuthorityStatus)
}
