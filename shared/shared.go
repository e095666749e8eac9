package shared

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"shareit/shared/cache"
	"shareit/shared/constant"
	"shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

// ParseID parses a positive numeric identity from a path or header value.
func ParseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// ActingUser returns the user id the identity middleware stored in ctx.
func ActingUser(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok || userID <= 0 {
		return 0, failure.MissingUserHeader
	}

	return userID, nil
}

// TransformFields converts the non-zero db-tagged fields of a struct into an update map.
func TransformFields(data any) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()

	return updatedFields
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a prefix and its parts with ':'.
func BuildCacheKey(prefix string, parts ...any) string {
	var builder strings.Builder

	builder.WriteString(prefix)

	for _, part := range parts {
		builder.WriteString(":")
		builder.WriteString(fmt.Sprint(part))
	}

	return builder.String()
}

// InvalidateCaches drops every key under prefix. Errors are logged, not returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// IsUniqueViolation reports whether err comes from a violated unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
