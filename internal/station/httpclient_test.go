package station

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lpdao/govcore/internal/errors"
	"github.com/lpdao/govcore/internal/identity"
)

func fixedURLClient(t *testing.T, srv *httptest.Server) *HTTPClient {
	t.Helper()
	return NewHTTPClient(func(identity.Principal) string { return srv.URL }, time.Second)
}

func TestHTTPClient_CreateRequestRoundTrips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/requests" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"RequestID":"r-1"}`))
	}))
	defer srv.Close()

	client := fixedURLClient(t, srv)
	resp, err := client.CreateRequest(context.Background(), identity.New([]byte{0x01}), RequestInput{OperationTag: TagTransfer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RequestID != "r-1" {
		t.Fatalf("expected decoded request id r-1, got %q", resp.RequestID)
	}
}

func TestHTTPClient_ErrorStatusBecomesStationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"invalid_policy","message":"quorum too low"}`))
	}))
	defer srv.Close()

	client := fixedURLClient(t, srv)
	_, err := client.CreateRequest(context.Background(), identity.New([]byte{0x01}), RequestInput{})
	stationErr, ok := err.(*errors.StationError)
	if !ok {
		t.Fatalf("expected *errors.StationError, got %T: %v", err, err)
	}
	if stationErr.Code != "invalid_policy" || stationErr.Message != "quorum too low" {
		t.Fatalf("expected station error fields to be decoded from the body, got %+v", stationErr)
	}
}

func TestHTTPClient_ListUsersDecodesSlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"u1","name":"alice"}]`))
	}))
	defer srv.Close()

	client := fixedURLClient(t, srv)
	users, err := client.ListUsers(context.Background(), identity.New([]byte{0x01}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("expected 1 decoded user u1, got %+v", users)
	}
}

func TestHTTPClient_SubmitRequestApprovalSendsDecisionAndReason(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
	}))
	defer srv.Close()

	client := fixedURLClient(t, srv)
	err := client.SubmitRequestApproval(context.Background(), identity.New([]byte{0x01}), "r-1", Approved, "looks good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotBody, `"decision":"Approved"`) || !strings.Contains(gotBody, `"reason":"looks good"`) {
		t.Fatalf("expected decision and reason encoded in request body, got %s", gotBody)
	}
}
