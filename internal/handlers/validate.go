package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"todoCalendar/internal/service"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator сообщает имена полей так, как они записаны в JSON.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeBody читает JSON тело и проверяет обязательные поля.
func decodeBody(r *http.Request, dst any) error {
	if !checkContentType(r, "application/json") {
		return service.NewValidationError("content-type", "Content-Type must be application/json")
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.NewValidationError("body", "Malformed JSON body")
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			field := fieldErrs[0].Field()
			return service.NewValidationError(field, fmt.Sprintf("%s is required", field))
		}
		return service.NewValidationError("body", err.Error())
	}
	return nil
}
