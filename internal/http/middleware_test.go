package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
)

func accessLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		if entry["msg"] == "request" {
			out = append(out, entry)
		}
	}
	return out
}

func TestAccessLogCarriesCandidateCount(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServerWithLogger(t, slog.New(slog.NewJSONHandler(&buf, nil)))

	w := post(t, s, "/api/v1/drivers/nearby", NearbyRequest{PickupLat: 11.0183, PickupLng: 76.9725})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	lines := accessLogLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one access-log line, got %d", len(lines))
	}
	entry := lines[0]
	n, ok := entry["candidates"].(float64)
	if !ok || n < 1 || n > 3 {
		t.Fatalf("candidates field missing or out of range: %v", entry["candidates"])
	}
	if entry["request_id"] == nil || entry["route"] != "/api/v1/drivers/nearby" {
		t.Fatalf("bad access-log line: %v", entry)
	}
}

func TestAccessLogCarriesBookingOutcome(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServerWithLogger(t, slog.New(slog.NewJSONHandler(&buf, nil)))

	if w := post(t, s, "/api/v1/bookings", BookRequest{DriverID: 2}); w.Code != http.StatusOK {
		t.Fatalf("book: %d", w.Code)
	}
	if w := post(t, s, "/api/v1/bookings", BookRequest{DriverID: 2}); w.Code != http.StatusConflict {
		t.Fatalf("rebook: %d", w.Code)
	}
	lines := accessLogLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected two access-log lines, got %d", len(lines))
	}
	if lines[0]["booking_id"] != "RAPID2123" || lines[0]["driver_id"] != float64(2) {
		t.Fatalf("success line missing booking fields: %v", lines[0])
	}
	if lines[1]["error"] == nil || lines[1]["booking_id"] != nil {
		t.Fatalf("conflict line must carry error, not booking_id: %v", lines[1])
	}
}

func TestRequestIDHeaderIsPropagated(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServerWithLogger(t, slog.New(slog.NewJSONHandler(&buf, nil)))

	req := newJSONRequest(t, "/api/v1/drivers/nearby", NearbyRequest{PickupLat: 0, PickupLng: 0})
	req.Header.Set("X-Request-ID", "req-abc")
	w := do(s, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	lines := accessLogLines(t, &buf)
	if len(lines) != 1 || lines[0]["request_id"] != "req-abc" {
		t.Fatalf("request id not propagated: %v", lines)
	}
}
