package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// logOnce serves req through RequestID and Logger and returns the decoded
// access log line.
func logOnce(t *testing.T, req *http.Request, h http.HandlerFunc) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	RequestID(Logger(logger)(h)).ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return line
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
	req.Header.Set("User-Agent", "nexus-web/1.0")
	req.Header.Set(RequestIDHeader, "req-1")
	req.Header.Set(TraceIDHeader, "trace-1")

	line := logOnce(t, req, func(w http.ResponseWriter, r *http.Request) {
		annotateUserID(r.Context(), 42)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	want := map[string]any{
		"msg":        "http request",
		"method":     "POST",
		"path":       "/api/messages",
		"status":     float64(201),
		"bytes":      float64(8),
		"user_id":    float64(42),
		"request_id": "req-1",
		"trace_id":   "trace-1",
		"user_agent": "nexus-web/1.0",
	}
	for k, v := range want {
		if line[k] != v {
			t.Errorf("%s = %v, want %v", k, line[k], v)
		}
	}
	if _, ok := line["duration_ms"]; !ok {
		t.Error("duration_ms missing")
	}
}

func TestLogger_AnonymousOmitsUserID(t *testing.T) {
	t.Parallel()

	line := logOnce(t, httptest.NewRequest(http.MethodGet, "/healthz", nil), func(w http.ResponseWriter, r *http.Request) {})
	if _, ok := line["user_id"]; ok {
		t.Errorf("anonymous request logged user_id = %v", line["user_id"])
	}
	if _, ok := line["trace_id"]; ok {
		t.Error("trace_id logged without a trace header")
	}
}

func TestLogger_NeverLogsCredentials(t *testing.T) {
	t.Parallel()

	token := "nx_01HV6Z7W8K3Q2R5T9Y4X1B0C2D_" + strings.Repeat("4f8d2e1b", 8)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"password":"hunter22"}`))
	req.AddCookie(&http.Cookie{Name: "nexus_session", Value: token})
	req.Header.Set("Authorization", "Bearer "+token)
	Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, secret := range []string{token, "4f8d2e1b", "Bearer", "nexus_session", "hunter22"} {
		if strings.Contains(out, secret) {
			t.Errorf("access log contains %q: %s", secret, out)
		}
	}
}

func TestLogger_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNoContent, "INFO"},
		{http.StatusConflict, "WARN"},
		{http.StatusTooManyRequests, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()
			line := logOnce(t, httptest.NewRequest(http.MethodGet, "/api/users", nil), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			if line["level"] != tt.want {
				t.Errorf("level = %v, want %s", line["level"], tt.want)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	rw := wrapResponseWriter(httptest.NewRecorder())
	if _, err := rw.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	rw.WriteHeader(http.StatusInternalServerError)
	_, _ = rw.Write([]byte(" world"))

	if rw.status != http.StatusOK {
		t.Errorf("status = %d, want implicit 200 to stick", rw.status)
	}
	if rw.bytes != len("hello world") {
		t.Errorf("bytes = %d, want %d", rw.bytes, len("hello world"))
	}
}
