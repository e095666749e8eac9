package validator

import (
	"fmt"
	"io"
	"reflect"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var (
	validate *val.Validate
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
)

func registerNotBlankValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return !field.Field().IsZero()
	}

	return strings.TrimSpace(str) != ""
}

func registerDateTimeValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := ParseDateTime(str)

	return err == nil
}

// jsonName reports fields by their wire name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	if err := validate.RegisterValidation("notblank", registerNotBlankValidation); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("datetime_local", registerDateTimeValidation); err != nil {
		panic(err)
	}
}

// ParseDateTime accepts the zone-less wire format in the app timezone, or RFC3339.
func ParseDateTime(value string) (res time.Time, err error) {
	res, err = timezone.Parse(constant.DateTimeFormat, value)
	if err == nil {
		return res, nil
	}

	res, err = time.Parse(constant.DateFormat, value)
	if err != nil {
		return res, fmt.Errorf("invalid date time %q: %w", value, err)
	}

	return res, nil
}

// Validate decodes a JSON body into data and checks its validate tags. Both failures render as 400.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
