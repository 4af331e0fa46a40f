package httpapi

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/rapid-dispatch/internal/dispatch"
	"github.com/example/rapid-dispatch/internal/models"
)

func TestWSSessionRemovedOnDisconnect(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}

	notice := models.Booking{ID: "RAPID1123", DriverID: 1}
	deadline := time.Now().Add(2 * time.Second)
	for s.WSReg.Notify(1, notice) != nil {
		if time.Now().After(deadline) {
			t.Fatal("session never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()
	for {
		err := s.WSReg.Notify(1, notice)
		if errors.Is(err, dispatch.ErrNoSession) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session not removed after disconnect, last err: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWSUnknownDriverRejected(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/99"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown driver")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
	resp.Body.Close()
}
