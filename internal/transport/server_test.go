package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	goverrors "github.com/lpdao/govcore/internal/errors"
)

func TestNewRouter_HealthzReportsOK(t *testing.T) {
	e := NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsIsRegistered(t *testing.T) {
	e := NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to be registered and return 200, got %d", rec.Code)
	}
}

func TestClassify_SentinelErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{goverrors.ErrAuthRequired, http.StatusUnauthorized},
		{goverrors.ErrNotActive, http.StatusConflict},
		{goverrors.ErrExpired, http.StatusConflict},
		{goverrors.ErrActiveProposalExists, http.StatusConflict},
		{goverrors.ErrNoVotingPower, http.StatusForbidden},
		{goverrors.ErrZeroVotingPower, http.StatusUnprocessableEntity},
		{goverrors.ErrNotRegistered, http.StatusNotFound},
		{goverrors.ErrNoPositions, http.StatusNotFound},
	}
	for _, tc := range cases {
		status, _ := classify(tc.err)
		if status != tc.want {
			t.Errorf("classify(%v): expected status %d, got %d", tc.err, tc.want, status)
		}
	}
}

func TestClassify_TypedErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&goverrors.NoStationLinked{Token: "t1"}, http.StatusNotFound},
		{&goverrors.NotFound{}, http.StatusNotFound},
		{&goverrors.AlreadyVoted{}, http.StatusConflict},
		{&goverrors.InsufficientVotingPowerToPropose{}, http.StatusForbidden},
		{&goverrors.InvalidTransferDetails{}, http.StatusBadRequest},
		{&goverrors.StationError{Code: "x", Message: "y"}, http.StatusBadGateway},
		{&goverrors.RemoteCallFailed{Code: "x", Message: "y"}, http.StatusBadGateway},
		{&goverrors.Custom{Message: "boom"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, body := classify(tc.err)
		if status != tc.want {
			t.Errorf("classify(%T): expected status %d, got %d", tc.err, tc.want, status)
		}
		if body.Message == "" {
			t.Errorf("classify(%T): expected a non-empty message", tc.err)
		}
	}
}

func TestClassify_EchoHTTPErrorPassesThroughItsCode(t *testing.T) {
	status, body := classify(echo.NewHTTPError(http.StatusTeapot, "I'm a teapot"))
	if status != http.StatusTeapot {
		t.Fatalf("expected echo.HTTPError's own code to pass through, got %d", status)
	}
	if body.Message != "I'm a teapot" {
		t.Fatalf("expected the HTTPError's message to be preserved, got %q", body.Message)
	}
}

func TestClassify_UnknownErrorDefaultsToInternalServerError(t *testing.T) {
	status, body := classify(errPlain("unrecognized failure"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500 for an unrecognized error type, got %d", status)
	}
	if body.Code != "internal" {
		t.Fatalf("expected a generic internal error code, got %q", body.Code)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
