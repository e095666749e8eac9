package repository

import (
	"shareit/internal/domains/booking/model"
	gDto "shareit/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePredicates_CoverEveryState(t *testing.T) {
	for _, state := range model.States() {
		_, ok := statePredicates[state]
		assert.True(t, ok, "state %s has no ledger predicate", state)
	}

	assert.Len(t, statePredicates, len(model.States()))
}

func TestListQuery(t *testing.T) {
	now := time.Date(2030, 5, 10, 12, 0, 0, 0, time.UTC)
	page := gDto.PageRequest{From: 20, Size: 10}

	tests := []struct {
		state     model.State
		fragments []string
	}{
		{state: model.StateAll},
		{state: model.StateCurrent, fragments: []string{`"bookings"."start_dt" <=`, `"bookings"."end_dt" >=`}},
		{state: model.StatePast, fragments: []string{`"bookings"."end_dt" <`}},
		{state: model.StateFuture, fragments: []string{`"bookings"."start_dt" >`}},
		{state: model.StateWaiting, fragments: []string{`"bookings"."status" =`}},
		{state: model.StateRejected, fragments: []string{`"bookings"."status" =`}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			query, args, err := listQuery(colBookerID.Eq(int64(2)), statePredicates[tt.state](now), page)
			require.NoError(t, err)

			assert.Contains(t, query, `"bookings"."booker_id" =`)
			assert.Contains(t, query, `INNER JOIN "items"`)
			assert.Contains(t, query, `INNER JOIN "users"`)
			assert.Contains(t, query, `ORDER BY "bookings"."start_dt" DESC, "bookings"."id" DESC`)
			assert.Contains(t, query, "LIMIT")
			assert.Contains(t, args, int64(2))

			for _, fragment := range tt.fragments {
				assert.Contains(t, query, fragment)
			}
		})
	}
}
