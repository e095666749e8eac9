//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"shareit/helper"
	"shareit/infras/otel/mocks"
	"shareit/infras/postgres"
	"shareit/internal/domains/booking/model"
	"shareit/internal/domains/booking/repository"
	gDto "shareit/shared/dto"
	gModel "shareit/shared/model"
)

const migrationsSource = "file://../../../../migrations/postgres"

// setupLedger starts PostgreSQL, applies the migrations and returns a connected ledger.
func setupLedger(t *testing.T) (repository.Booking, *sqlx.DB) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "shareit",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/shareit?sslmode=disable", host, port.Port())

	var db *sqlx.DB
	require.Eventually(t, func() bool {
		db, err = sqlx.Connect("postgres", dsn)

		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, helper.Run(migrationsSource, dsn, helper.ActionUp))

	return repository.New(postgres.NewFromDB(db), mocks.NewOtel()), db
}

func seedUser(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()

	var id int64
	require.NoError(t, db.Get(&id, "INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id", name, name+"@example.com"))

	return id
}

func seedItem(t *testing.T, db *sqlx.DB, ownerID int64) int64 {
	t.Helper()

	var id int64
	require.NoError(t, db.Get(&id, "INSERT INTO items (name, description, available, owner_id) VALUES ('Drill', 'Cordless', TRUE, $1) RETURNING id", ownerID))

	return id
}

func insertBooking(t *testing.T, ledger repository.Booking, itemID, bookerID int64, start, end time.Time, status model.Status) model.Booking {
	t.Helper()

	booking := model.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   status,
		Metadata: gModel.Metadata{CreatedAt: start, ModifiedAt: start},
	}

	id, err := ledger.Insert(context.Background(), booking)
	require.NoError(t, err)

	booking.ID = id

	return booking
}

func ids(bookings []model.Booking) []int64 {
	res := make([]int64, len(bookings))
	for i, booking := range bookings {
		res[i] = booking.ID
	}

	return res
}

func TestLedger_Integration(t *testing.T) {
	ledger, db := setupLedger(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	booker := seedUser(t, db, "booker")
	item := seedItem(t, db, owner)

	now := time.Now().UTC().Truncate(time.Microsecond)
	hour := time.Hour

	all := []model.Booking{
		insertBooking(t, ledger, item, booker, now.Add(-72*hour), now.Add(-48*hour), model.StatusApproved),
		insertBooking(t, ledger, item, booker, now.Add(-30*hour), now.Add(-24*hour), model.StatusRejected),
		insertBooking(t, ledger, item, booker, now.Add(-hour), now.Add(hour), model.StatusApproved),
		insertBooking(t, ledger, item, booker, now.Add(24*hour), now.Add(48*hour), model.StatusWaiting),
		insertBooking(t, ledger, item, booker, now.Add(24*hour), now.Add(30*hour), model.StatusApproved),
		insertBooking(t, ledger, item, booker, now.Add(96*hour), now.Add(100*hour), model.StatusApproved),
	}

	// expected order: start descending, id descending on equal starts
	ordered := slices.Clone(all)
	slices.SortStableFunc(ordered, func(a, b model.Booking) int {
		if c := b.Start.Compare(a.Start); c != 0 {
			return c
		}

		if a.ID > b.ID {
			return -1
		}

		return 1
	})

	unpaged := gDto.PageRequest{From: 0, Size: 100}

	t.Run("every state matches the in-memory classification", func(t *testing.T) {
		for _, state := range model.States() {
			want := []int64{}

			for _, booking := range ordered {
				if state.Match(booking, now) {
					want = append(want, booking.ID)
				}
			}

			byBooker, err := ledger.FindByBooker(ctx, booker, state, now, unpaged)
			require.NoError(t, err)
			assert.Equal(t, want, ids(byBooker), "booker %s", state)

			byOwner, err := ledger.FindByOwner(ctx, owner, state, now, unpaged)
			require.NoError(t, err)
			assert.Equal(t, want, ids(byOwner), "owner %s", state)
		}
	})

	t.Run("listing embeds item and booker", func(t *testing.T) {
		res, err := ledger.FindByBooker(ctx, booker, model.StateAll, now, unpaged)
		require.NoError(t, err)
		require.NotEmpty(t, res)

		assert.Equal(t, "Drill", res[0].ItemName)
		assert.True(t, res[0].ItemAvailable)
		assert.Equal(t, owner, res[0].ItemOwnerID)
		assert.Equal(t, "booker", res[0].BookerName)
	})

	t.Run("pages concatenate to the unpaged result", func(t *testing.T) {
		var pages []int64

		for from := 0; from < len(all); from += 4 {
			res, err := ledger.FindByBooker(ctx, booker, model.StateAll, now, gDto.PageRequest{From: from, Size: 4})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(res), 4)

			pages = append(pages, ids(res)...)
		}

		assert.Equal(t, ids(ordered), pages)
	})

	t.Run("nobody else sees the bookings", func(t *testing.T) {
		res, err := ledger.FindByOwner(ctx, booker, model.StateAll, now, unpaged)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("projections", func(t *testing.T) {
		last, err := ledger.LastApprovedBefore(ctx, item, now)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, all[2].ID, last.ID)

		next, err := ledger.NextApprovedAfter(ctx, item, now)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, all[4].ID, next.ID)

		none, err := ledger.NextApprovedAfter(ctx, item, now.Add(1000*hour))
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("status update only leaves WAITING once", func(t *testing.T) {
		waiting := all[3].ID

		updated, err := ledger.UpdateStatusIfWaiting(ctx, waiting, model.StatusApproved)
		require.NoError(t, err)
		assert.True(t, updated)

		updated, err = ledger.UpdateStatusIfWaiting(ctx, waiting, model.StatusRejected)
		require.NoError(t, err)
		assert.False(t, updated)

		stored, err := ledger.Get(ctx, gDto.FilterGroup{Filters: []any{gDto.Filter{
			Field: model.FieldID, Value: waiting, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		}}})
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, stored.Status)
	})

	t.Run("finished booking", func(t *testing.T) {
		finished, err := ledger.HasFinishedBooking(ctx, booker, item, now)
		require.NoError(t, err)
		assert.True(t, finished)

		finished, err = ledger.HasFinishedBooking(ctx, owner, item, now)
		require.NoError(t, err)
		assert.False(t, finished)
	})
}
