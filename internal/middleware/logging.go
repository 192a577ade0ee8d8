// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// statusRecorder captures the response status for the request log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogMiddleware is an HTTP middleware that logs each request with Logrus:
// method, path, status, and duration.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogSeatConnect logs a seat's WebSocket attach, once the upgrade is accepted
// and the seat token has been verified.
func LogSeatConnect(logger *logrus.Logger, gameID, seatID uuid.UUID, remoteAddr string) {
	logger.WithFields(logrus.Fields{
		"game":   gameID,
		"seat":   seatID,
		"remote": remoteAddr,
	}).Info("Seat connected")
}

// LogSeatDisconnect logs a seat's WebSocket detach.
func LogSeatDisconnect(logger *logrus.Logger, gameID, seatID uuid.UUID, err error) {
	fields := logrus.Fields{
		"game": gameID,
		"seat": seatID,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("Seat disconnected")
}
