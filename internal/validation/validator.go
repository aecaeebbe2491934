// Package validation validates configuration structs using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their `env` tag and knows
// the `boundaryfile` and `xlsx` file-extension rules.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})

	//nolint:errcheck // Registration only fails for empty tags.
	v.RegisterValidation("boundaryfile", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(filepath.Ext(fl.Field().String())) {
		case ".shp", ".geojson", ".json":
			return true
		default:
			return false
		}
	})

	//nolint:errcheck // Registration only fails for empty tags.
	v.RegisterValidation("xlsx", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(filepath.Ext(fl.Field().String())) {
		case ".xlsx", ".xlsm", ".xltx", ".xltm":
			return true
		default:
			return false
		}
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to an invalid input error whose
// details map each offending field to a readable message.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	names := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		names = append(names, e.Field()+" "+fieldErrors[e.Field()])
	}

	return domainerrors.InvalidInputWithDetails(
		"validation failed: "+strings.Join(names, "; "), fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "boundaryfile":
		return "must be a .shp, .geojson or .json file"
	case "xlsx":
		return "must be an Excel workbook (.xlsx)"
	default:
		return fmt.Sprintf("is invalid (%s)", e.Tag())
	}
}
