package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/utils"
)

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// MaxJSONBody caps request bodies read by ValidateRequest.
const MaxJSONBody = 1 << 20

// request models implement this interface
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into T, runs its Validate method and
// stores the result in the request context for GetValidatedRequest.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req T
			reqType := reflect.TypeOf(req)
			if reqType.Kind() == reflect.Ptr {
				req = reflect.New(reqType.Elem()).Interface().(T)
			} else {
				req = reflect.New(reqType).Interface().(T)
			}

			// an empty body decodes as {} so optional payloads still validate
			err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBody)).Decode(req)
			var tooLarge *http.MaxBytesError
			switch {
			case err == nil, errors.Is(err, io.EOF):
			case errors.As(err, &tooLarge):
				utils.JSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Code:    "body_too_large",
					Message: "Request body exceeds 1 MiB",
				})
				return
			default:
				utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
					Code:    "invalid_json",
					Message: "Invalid JSON in request body",
				})
				return
			}

			if err := req.Validate(); err != nil {
				var errResp *models.ErrorResponse
				if errors.As(err, &errResp) {
					utils.JSON(w, http.StatusBadRequest, *errResp)
				} else {
					utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
						Code:    "validation_error",
						Message: err.Error(),
					})
				}
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
