package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/shared/constant"
	"shareit/shared/dto"
	"shareit/shared/logger"
	"shareit/shared/model"
	"slices"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const dialectPostgres = "postgres"

var (
	errRequiredFilter = errors.New("required filter")

	dialect = goqu.Dialect(dialectPostgres)
)

type column struct {
	name  string
	table string
	alias string
	field []int
}

func (c column) expression() any {
	identifier := goqu.T(c.table).Col(c.name)
	if c.alias != "" {
		return identifier.As(c.alias)
	}

	return identifier
}

// Repository is the CRUD layer shared by every table-backed domain. Columns, inserted fields and joins
// come from T's db, table, column and insert tags.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         exp.IdentifierExpression
	entity        string
	primaryColumn string
	columns       []column
	inserts       []column
	joins         []model.Join
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, inserts := getColumns(tableName, reflect.TypeOf(zero), nil)

	var joins []model.Join
	if joined, ok := any(zero).(model.Joined); ok {
		joins = joined.Joins()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         goqu.T(tableName),
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		inserts:       inserts,
		joins:         joins,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

// Insert stores row and returns the primary key the database assigned.
func (repo *Repository[T]) Insert(ctx context.Context, row T) (int64, error) {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	query, args, err := dialect.Insert(repo.table).
		Rows(repo.record(row)).
		Returning(goqu.C(repo.primaryColumn)).
		Prepared(true).
		ToSQL()
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to build insert (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var id int64

	if err = repo.db.Write.GetContext(ctx, &id, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert data (%s): %w", repo.entity, err)
	}

	return id, nil
}

// Exist reports whether any row matches filter. A filter is required.
func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where := filter.Expression()
	if where == nil {
		return false, errRequiredFilter
	}

	query, args, err := dialect.From(repo.table).
		Select(goqu.L("1")).
		Where(where).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to build exist query (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var found int

	err = repo.db.Read.GetContext(ctx, &found, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entity, err)
	}

	return true, nil
}

// Get returns the first row matching filter, or the zero T when there is none.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	var row T

	query, args, err := repo.selectDataset(filter, columns...).Limit(1).Prepared(true).ToSQL()
	if err != nil {
		scope.TraceError(err)

		return row, fmt.Errorf("failed to build select (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return row, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return row, fmt.Errorf("failed to get data (%s): %w", repo.entity, err)
	}

	return row, nil
}

// GetAll returns the rows matching filter in the order and page params ask for.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	query, args, err := repo.pageDataset(params, filter, columns...).Prepared(true).ToSQL()
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to build select (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	if err = repo.db.Read.SelectContext(ctx, &models, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", repo.entity, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	dataset := repo.joined(dialect.From(repo.table)).Select(goqu.COUNT(repo.table.Col(repo.primaryColumn)))
	if where := filter.Expression(); where != nil {
		dataset = dataset.Where(where)
	}

	query, args, err := dataset.Prepared(true).ToSQL()
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to build count (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	if err = repo.db.Read.GetContext(ctx, &count, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entity, err)
	}

	return count, nil
}

// Delete removes every row matching filter. A filter is required.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	where := filter.Expression()
	if where == nil {
		return errRequiredFilter
	}

	query, args, err := dialect.Delete(repo.table).Where(where).Prepared(true).ToSQL()
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to build delete (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.db.Write.ExecContext(ctx, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to delete data (%s): %w", repo.entity, err)
	}

	return nil
}

// Update sets the columns in mod on every row matching filter. A filter is required.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	where := filter.Expression()
	if where == nil {
		return errRequiredFilter
	}

	query, args, err := dialect.Update(repo.table).Set(goqu.Record(mod)).Where(where).Prepared(true).ToSQL()
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to build update (%s): %w", repo.entity, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.db.Write.ExecContext(ctx, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update data (%s): %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) selectDataset(filter dto.FilterGroup, columnsParam ...string) *goqu.SelectDataset {
	selected := make([]any, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(columnsParam) > 0 && !slices.Contains(columnsParam, col.name) {
			continue
		}

		selected = append(selected, col.expression())
	}

	dataset := repo.joined(dialect.From(repo.table)).Select(selected...)

	if where := filter.Expression(); where != nil {
		dataset = dataset.Where(where)
	}

	return dataset
}

func (repo *Repository[T]) pageDataset(params dto.QueryParams, filter dto.FilterGroup, columns ...string) *goqu.SelectDataset {
	dataset := repo.selectDataset(filter, columns...)

	if params.SortBy != "" {
		sortBy := goqu.I(params.SortBy)

		if params.SortDir == dto.SortDirDesc {
			dataset = dataset.Order(sortBy.Desc())
		} else {
			dataset = dataset.Order(sortBy.Asc())
		}
	}

	if params.Limit > 0 {
		dataset = dataset.Limit(uint(params.Limit))

		if params.Page > 0 {
			dataset = dataset.Offset(uint((params.Page - 1) * params.Limit))
		}
	}

	return dataset
}

func (repo *Repository[T]) joined(dataset *goqu.SelectDataset) *goqu.SelectDataset {
	for _, join := range repo.joins {
		joinTable := goqu.T(join.Table)
		dataset = dataset.Join(joinTable, goqu.On(joinTable.Col(join.Column).Eq(repo.table.Col(join.Ref))))
	}

	return dataset
}

// record maps the insertable columns of row to their values.
func (repo *Repository[T]) record(row T) goqu.Record {
	value := reflect.ValueOf(row)
	record := make(goqu.Record, len(repo.inserts))

	for _, col := range repo.inserts {
		record[col.name] = value.FieldByIndex(col.field).Interface()
	}

	return record
}

// getColumns walks reflectType, descending into embedded structs. Fields tagged with a foreign table
// are read through a join and never inserted.
func getColumns(table string, reflectType reflect.Type, parent []int) (columns, inserts []column) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)
		index := append(slices.Clone(parent), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embeddedColumns, embeddedInserts := getColumns(table, field.Type, index)
			columns = append(columns, embeddedColumns...)
			inserts = append(inserts, embeddedInserts...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		col := column{name: dbTag, table: table, field: index}

		if foreign := field.Tag.Get("table"); foreign != "" && foreign != table {
			col.table = foreign
			col.name = field.Tag.Get("column")
			col.alias = dbTag
		} else if field.Tag.Get("insert") != "false" {
			inserts = append(inserts, col)
		}

		columns = append(columns, col)
	}

	return columns, inserts
}
