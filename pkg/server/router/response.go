package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// NewResponseWriter wraps w so that the status code and written state can be read back.
// Adapters whose framework already wraps the writer pass that wrapper in.
func NewResponseWriter(w http.ResponseWriter) ResponseWriter {
	return &trackingWriter{ResponseWriter: w}
}

type trackingWriter struct {
	http.ResponseWriter
	mu      sync.RWMutex
	status  int
	written bool
}

func (w *trackingWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *trackingWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// WriteString writes s as a plain text body with the given status.
func WriteString(w http.ResponseWriter, code int, s string) error {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	_, err := io.WriteString(w, s)
	return err
}

// routeError has the same JSON shape as the API error envelope.
type routeError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusNotFound, routeError{
		Error:   "not_found",
		Message: fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
	})
}

// MethodNotAllowed answers requests whose path exists for another method only.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	_ = WriteJSON(w, http.StatusMethodNotAllowed, routeError{
		Error:   "method_not_allowed",
		Message: fmt.Sprintf("%s is not allowed on %s", r.Method, r.URL.Path),
	})
}

// Fail answers an error a handler returned without writing a response. The cause is not
// exposed to the client.
func Fail(w ResponseWriter, err error) {
	if err == nil || w.Written() {
		return
	}
	_ = WriteJSON(w, http.StatusInternalServerError, routeError{Error: "internal_server_error"})
}
