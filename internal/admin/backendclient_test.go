package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
)

func TestHTTPBackendClient_ResolvesBoundStation(t *testing.T) {
	stationID := identity.New([]byte{0xAA, 0xBB})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"station":"` + stationID.String() + `"}`))
	}))
	defer srv.Close()

	client := NewHTTPBackendClient(srv.URL, time.Second)
	got, err := client.StationForToken(context.Background(), identity.New([]byte{0x01}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(stationID) {
		t.Fatalf("expected resolved station to match response body")
	}
}

func TestHTTPBackendClient_404BecomesNoStationLinked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPBackendClient(srv.URL, time.Second)
	_, err := client.StationForToken(context.Background(), identity.New([]byte{0x01}))
	if _, ok := err.(*errors.NoStationLinked); !ok {
		t.Fatalf("expected *errors.NoStationLinked, got %T: %v", err, err)
	}
}

func TestHTTPBackendClient_ServerErrorBecomesRemoteCallFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPBackendClient(srv.URL, time.Second)
	_, err := client.StationForToken(context.Background(), identity.New([]byte{0x01}))
	if _, ok := err.(*errors.RemoteCallFailed); !ok {
		t.Fatalf("expected *errors.RemoteCallFailed, got %T: %v", err, err)
	}
}
