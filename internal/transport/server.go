// Package transport provides the echo-based HTTP scaffolding shared by
// both services (Backend and Admin): route registration, health and
// metrics endpoints, and a uniform mapping from this core's typed errors
// to HTTP status codes. Grounded on api/dao_server.go's NewDAOServer/route
// registration pattern (echo.Context handlers returning JSON), adapted
// from one combined server to a shared base both service binaries embed.
package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goverrors "github.com/lpdao/govcore/internal/errors"
)

// NewRouter builds an echo instance with the health and metrics routes
// every service exposes, matching the teacher's pattern of registering
// fixed operational routes alongside domain routes on the same engine.
func NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", handleHealthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorHandler renders any error returned by a handler as a JSON body with
// a status code derived from its type, so callers of either service see a
// uniform error shape regardless of which subsystem raised it.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, body := classify(err)
	if jsonErr := c.JSON(status, body); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func classify(err error) (int, errorBody) {
	switch e := err.(type) {
	case *echo.HTTPError:
		msg := ""
		if m, ok := e.Message.(string); ok {
			msg = m
		}
		return e.Code, errorBody{Code: "http_error", Message: msg}

	case *goverrors.NoStationLinked:
		return http.StatusNotFound, errorBody{Code: "no_station_linked", Message: e.Error()}
	case *goverrors.NotFound:
		return http.StatusNotFound, errorBody{Code: "not_found", Message: e.Error()}
	case *goverrors.AlreadyVoted:
		return http.StatusConflict, errorBody{Code: "already_voted", Message: e.Error()}
	case *goverrors.InsufficientVotingPowerToPropose:
		return http.StatusForbidden, errorBody{Code: "insufficient_voting_power", Message: e.Error()}
	case *goverrors.InvalidTransferDetails:
		return http.StatusBadRequest, errorBody{Code: "invalid_transfer_details", Message: e.Error()}
	case *goverrors.StationError:
		return http.StatusBadGateway, errorBody{Code: e.Code, Message: e.Message, Details: e.Details}
	case *goverrors.RemoteCallFailed:
		return http.StatusBadGateway, errorBody{Code: e.Code, Message: e.Message}
	case *goverrors.Custom:
		return http.StatusInternalServerError, errorBody{Code: "internal", Message: e.Error()}
	}

	switch err {
	case goverrors.ErrAuthRequired:
		return http.StatusUnauthorized, errorBody{Code: "auth_required", Message: err.Error()}
	case goverrors.ErrNotActive:
		return http.StatusConflict, errorBody{Code: "not_active", Message: err.Error()}
	case goverrors.ErrExpired:
		return http.StatusConflict, errorBody{Code: "expired", Message: err.Error()}
	case goverrors.ErrActiveProposalExists:
		return http.StatusConflict, errorBody{Code: "active_proposal_exists", Message: err.Error()}
	case goverrors.ErrNoVotingPower:
		return http.StatusForbidden, errorBody{Code: "no_voting_power", Message: err.Error()}
	case goverrors.ErrZeroVotingPower:
		return http.StatusUnprocessableEntity, errorBody{Code: "zero_voting_power", Message: err.Error()}
	case goverrors.ErrNotRegistered:
		return http.StatusNotFound, errorBody{Code: "not_registered", Message: err.Error()}
	case goverrors.ErrNoPositions:
		return http.StatusNotFound, errorBody{Code: "no_positions", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorBody{Code: "internal", Message: err.Error()}
}
