package core

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"templeadmin/internal/types"
)

// FieldError describes one rejected field in a validation failure.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Validator wraps go-playground/validator with the console's custom tags:
//
//	module       - value names a tracked module (bookings, storage, apiCalls, users)
//	usage_level  - value is normal, near-limit or over-limit
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator builds a Validator whose field names follow json tags.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	must(v.RegisterValidation("module", func(fl validator.FieldLevel) bool {
		_, ok := types.ParseModule(fl.Field().String())
		return ok
	}))
	must(v.RegisterValidation("usage_level", func(fl validator.FieldLevel) bool {
		switch types.UsageLevel(fl.Field().String()) {
		case types.LevelNormal, types.LevelNearLimit, types.LevelOverLimit:
			return true
		}
		return false
	}))

	return &Validator{validate: v, logger: logger}
}

// ValidateStruct returns nil or an AppError listing every failing field.
// The error code is chosen from the first failure: a bad module becomes
// validation_invalid_module, a missing value validation_missing_required_field
// and anything else validation_invalid_body.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.logger.Error("validator misuse", "error", err)
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}

	first := fields[0]
	code, msg := types.ErrCodeValidationInvalidBody, "invalid value for "+first.Field
	switch first.Rule {
	case "module":
		code, msg = types.ErrCodeValidationInvalidModule, "unknown module for "+first.Field
	case "required":
		code, msg = types.ErrCodeValidationMissingField, first.Field+" is required"
	case "oneof", "usage_level":
		if first.Field == "status" {
			code = types.ErrCodeValidationInvalidStatus
		}
	}

	return types.NewAppErrorWithDetails(code, msg, err, map[string]any{"fields": fields})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
