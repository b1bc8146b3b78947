package view

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidationError lists the required fields a form is missing.
type ValidationError struct {
	Fields []dal.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]dal.FieldError, 0, len(verrs))
	for _, ferr := range verrs {
		var message string
		switch ferr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", ferr.Field())
		default:
			message = fmt.Sprintf("%s is invalid", ferr.Field())
		}
		fields = append(fields, dal.FieldError{Field: ferr.Field(), Message: message})
	}
	return &ValidationError{Fields: fields}
}
