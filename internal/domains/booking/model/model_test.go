package model_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/domains/booking/model"
	"shareit/shared/failure"
)

func TestParseState(t *testing.T) {
	for _, state := range model.States() {
		t.Run(string(state), func(t *testing.T) {
			parsed, err := model.ParseState(string(state))
			require.NoError(t, err)
			assert.Equal(t, state, parsed)
		})
	}

	for _, bogus := range []string{"BOGUS", "all", "Current", "", " ALL"} {
		t.Run("rejects "+bogus, func(t *testing.T) {
			_, err := model.ParseState(bogus)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, "unknown state: "+bogus, err.Error())
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from model.Status
		to   model.Status
		want bool
	}{
		{from: model.StatusWaiting, to: model.StatusApproved, want: true},
		{from: model.StatusWaiting, to: model.StatusRejected, want: true},
		{from: model.StatusWaiting, to: model.StatusWaiting, want: false},
		{from: model.StatusApproved, to: model.StatusRejected, want: false},
		{from: model.StatusApproved, to: model.StatusApproved, want: false},
		{from: model.StatusRejected, to: model.StatusApproved, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}

	assert.Equal(t, model.StatusApproved, model.Decide(true))
	assert.Equal(t, model.StatusRejected, model.Decide(false))
	assert.False(t, model.StatusWaiting.IsTerminal())
}

func TestStateMatch_Boundaries(t *testing.T) {
	now := time.Date(2030, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		booking model.Booking
		want    []model.State
	}{
		{
			name:    "starts exactly now",
			booking: model.Booking{Start: now, End: now.Add(time.Hour), Status: model.StatusApproved},
			want:    []model.State{model.StateAll, model.StateCurrent},
		},
		{
			name:    "ends exactly now",
			booking: model.Booking{Start: now.Add(-time.Hour), End: now, Status: model.StatusWaiting},
			want:    []model.State{model.StateAll, model.StateCurrent, model.StateWaiting},
		},
		{
			name:    "ended a second ago",
			booking: model.Booking{Start: now.Add(-time.Hour), End: now.Add(-time.Second), Status: model.StatusRejected},
			want:    []model.State{model.StateAll, model.StatePast, model.StateRejected},
		},
		{
			name:    "starts in a second",
			booking: model.Booking{Start: now.Add(time.Second), End: now.Add(time.Hour), Status: model.StatusWaiting},
			want:    []model.State{model.StateAll, model.StateFuture, model.StateWaiting},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []model.State{}

			for _, state := range model.States() {
				if state.Match(tt.booking, now) {
					got = append(got, state)
				}
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

// Every booking falls in exactly one of CURRENT, PAST and FUTURE.
func TestStateMatch_TimePartition(t *testing.T) {
	now := time.Date(2030, 5, 10, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{-48 * time.Hour, -time.Hour, -time.Second, 0, time.Second, time.Hour, 48 * time.Hour}

	for _, startOffset := range offsets {
		for _, length := range []time.Duration{time.Second, time.Hour, 72 * time.Hour} {
			booking := model.Booking{Start: now.Add(startOffset), End: now.Add(startOffset + length)}

			hits := 0

			for _, state := range []model.State{model.StateCurrent, model.StatePast, model.StateFuture} {
				if state.Match(booking, now) {
					hits++
				}
			}

			assert.Equal(t, 1, hits, "start %s length %s", startOffset, length)
			assert.True(t, model.StateAll.Match(booking, now))
		}
	}
}

func TestBooking_IsVisibleTo(t *testing.T) {
	booking := model.Booking{BookerID: 2, ItemOwnerID: 1}

	assert.True(t, booking.IsVisibleTo(1))
	assert.True(t, booking.IsVisibleTo(2))
	assert.False(t, booking.IsVisibleTo(3))
}
