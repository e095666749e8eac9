package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/internal/domains/booking/model"
	itemModel "shareit/internal/domains/item/model"
	userModel "shareit/internal/domains/user/model"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/logger"
	gRepo "shareit/shared/repository"
	"shareit/shared/timezone"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	dialectPostgres = "postgres"

	aliasItemName      = "item_name"
	aliasItemAvailable = "item_available"
	aliasItemOwnerID   = "item_owner_id"
	aliasBookerName    = "booker_name"
)

var (
	bookings = goqu.T(model.TableName)
	items    = goqu.T(itemModel.TableName)
	users    = goqu.T(userModel.TableName)

	colID       = bookings.Col(model.FieldID)
	colStart    = bookings.Col(model.FieldStart)
	colEnd      = bookings.Col(model.FieldEnd)
	colItemID   = bookings.Col(model.FieldItemID)
	colBookerID = bookings.Col(model.FieldBookerID)
	colStatus   = bookings.Col(model.FieldStatus)
	colOwnerID  = items.Col(itemModel.FieldOwnerID)
)

// predicate narrows a listing to one booking state at the given instant.
type predicate func(now time.Time) []exp.Expression

// statePredicates is the single state to ledger predicate table. model.State.Match mirrors it.
var statePredicates = map[model.State]predicate{
	model.StateAll: func(time.Time) []exp.Expression {
		return nil
	},
	model.StateCurrent: func(now time.Time) []exp.Expression {
		return []exp.Expression{colStart.Lte(now), colEnd.Gte(now)}
	},
	model.StatePast: func(now time.Time) []exp.Expression {
		return []exp.Expression{colEnd.Lt(now)}
	},
	model.StateFuture: func(now time.Time) []exp.Expression {
		return []exp.Expression{colStart.Gt(now)}
	},
	model.StateWaiting: func(time.Time) []exp.Expression {
		return []exp.Expression{colStatus.Eq(string(model.StatusWaiting))}
	},
	model.StateRejected: func(time.Time) []exp.Expression {
		return []exp.Expression{colStatus.Eq(string(model.StatusRejected))}
	},
}

// Booking is the booking ledger.
type Booking interface {
	Insert(ctx context.Context, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	FindByBooker(ctx context.Context, bookerID int64, state model.State, now time.Time, page gDto.PageRequest) ([]model.Booking, error)
	FindByOwner(ctx context.Context, ownerID int64, state model.State, now time.Time, page gDto.PageRequest) ([]model.Booking, error)
	LastApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	NextApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	UpdateStatusIfWaiting(ctx context.Context, id int64, status model.Status) (bool, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) FindByBooker(ctx context.Context, bookerID int64, state model.State, now time.Time, page gDto.PageRequest) ([]model.Booking, error) {
	return r.find(ctx, "FindByBooker", colBookerID.Eq(bookerID), state, now, page)
}

func (r *repositoryImpl) FindByOwner(ctx context.Context, ownerID int64, state model.State, now time.Time, page gDto.PageRequest) ([]model.Booking, error) {
	return r.find(ctx, "FindByOwner", colOwnerID.Eq(ownerID), state, now, page)
}

// LastApprovedBefore is the approved booking with the latest start not after now, latest end first on ties.
func (r *repositoryImpl) LastApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	query := selectBookings().
		Where(colItemID.Eq(itemID), colStatus.Eq(string(model.StatusApproved)), colStart.Lte(now)).
		Order(colStart.Desc(), colEnd.Desc())

	return r.first(ctx, "LastApprovedBefore", query)
}

// NextApprovedAfter is the approved booking with the earliest start after now, earliest end first on ties.
func (r *repositoryImpl) NextApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	query := selectBookings().
		Where(colItemID.Eq(itemID), colStatus.Eq(string(model.StatusApproved)), colStart.Gt(now)).
		Order(colStart.Asc(), colEnd.Asc())

	return r.first(ctx, "NextApprovedAfter", query)
}

// UpdateStatusIfWaiting moves a WAITING booking to status in a single statement.
// It reports false when the booking was no longer WAITING.
func (r *repositoryImpl) UpdateStatusIfWaiting(ctx context.Context, id int64, status model.Status) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusIfWaiting")
	defer scope.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		Update(bookings).
		Set(goqu.Record{
			model.FieldStatus:        string(status),
			constant.FieldModifiedAt: timezone.Now(),
		}).
		Where(goqu.C(model.FieldID).Eq(id), goqu.C(model.FieldStatus).Eq(string(model.StatusWaiting))).
		Prepared(true).
		ToSQL()
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to build status update (booking): %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update status (booking): %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read affected rows (booking): %w", err)
	}

	return affected == 1, nil
}

// HasFinishedBooking reports whether bookerID has a booking of itemID that ended before now.
func (r *repositoryImpl) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasFinishedBooking")
	defer scope.End()

	subQuery := goqu.Dialect(dialectPostgres).
		From(bookings).
		Select(goqu.L("1")).
		Where(colBookerID.Eq(bookerID), colItemID.Eq(itemID), colEnd.Lt(now))

	query, args, err := goqu.Dialect(dialectPostgres).
		Select(goqu.L("EXISTS ?", subQuery)).
		Prepared(true).
		ToSQL()
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to build finished booking query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exists bool
	if err = r.db.Read.GetContext(ctx, &exists, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check finished booking: %w", err)
	}

	return exists, nil
}

func (r *repositoryImpl) find(ctx context.Context, name string, scoped exp.Expression, state model.State, now time.Time, page gDto.PageRequest) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking."+name)
	defer scope.End()

	scope.SetAttribute("state", string(state))

	predicate, ok := statePredicates[state]
	if !ok {
		err := fmt.Errorf("no ledger predicate for state %q", state)
		scope.TraceError(err)

		return nil, err
	}

	query, args, err := listQuery(scoped, predicate(now), page)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to build booking listing: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result := []model.Booking{}
	if err = r.db.Read.SelectContext(ctx, &result, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return result, nil
}

func (r *repositoryImpl) first(ctx context.Context, name string, dataset *goqu.SelectDataset) (*model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking."+name)
	defer scope.End()

	query, args, err := dataset.Limit(1).Prepared(true).ToSQL()
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to build booking projection: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var booking model.Booking

	err = r.db.Read.GetContext(ctx, &booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get booking projection: %w", err)
	}

	return &booking, nil
}

// listQuery renders a page of bookings, newest start first. Id breaks start ties so pages are stable.
func listQuery(scoped exp.Expression, predicates []exp.Expression, page gDto.PageRequest) (string, []any, error) {
	where := append([]exp.Expression{scoped}, predicates...)

	dataset := selectBookings().
		Where(where...).
		Order(colStart.Desc(), colID.Desc())

	if page.Size > 0 {
		dataset = dataset.Limit(uint(page.Size)).Offset(uint(page.Offset()))
	}

	return dataset.Prepared(true).ToSQL()
}

func selectBookings() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(bookings).
		Join(items, goqu.On(items.Col(itemModel.FieldID).Eq(colItemID))).
		Join(users, goqu.On(users.Col(userModel.FieldID).Eq(colBookerID))).
		Select(
			colID,
			colStart,
			colEnd,
			colItemID,
			colBookerID,
			colStatus,
			bookings.Col(constant.FieldCreatedAt),
			bookings.Col(constant.FieldModifiedAt),
			items.Col(itemModel.FieldName).As(aliasItemName),
			items.Col(itemModel.FieldAvailable).As(aliasItemAvailable),
			colOwnerID.As(aliasItemOwnerID),
			users.Col(userModel.FieldName).As(aliasBookerName),
		)
}
