package utils

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var Logger *zap.Logger

func InitLogger() {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}

// RequestLogger tags logger with the chi request id of r.
func RequestLogger(logger *zap.Logger, r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}
