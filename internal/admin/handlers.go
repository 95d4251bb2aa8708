package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lpdao/govcore/internal/events"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/proposal"
)

// RegisterRoutes wires the Admin's HTTP surface onto an existing echo
// instance (typically one built by internal/transport.NewRouter). bus may
// be nil, in which case the WebSocket event feed is not registered.
func RegisterRoutes(e *echo.Echo, svc *Service, bus *events.Bus) {
	e.POST("/proposals/ensure", handleEnsureProposal(svc))
	e.POST("/proposals/vote", handleVote(svc))
	e.GET("/proposals/:token/:request_id", handleGetProposal(svc))
	e.GET("/proposals/:token", handleListActive(svc))
	e.GET("/proposals/:token/:request_id/voted/:user", handleHasVoted(svc))
	e.GET("/proposals/:token/:request_id/vote/:user", handleGetVote(svc))

	if bus != nil {
		e.GET("/events", handleEvents(bus))
	}
}

func principalFromParam(raw string) (identity.Principal, error) {
	return identity.FromText(raw)
}

type ensureProposalRequest struct {
	Caller          string `json:"caller"`
	Token           string `json:"token"`
	StationRequestID string `json:"station_request_id"`
	OpKind          string `json:"op_kind"`
}

func handleEnsureProposal(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ensureProposalRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		caller, err := principalFromParam(req.Caller)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed caller principal")
		}
		token, err := principalFromParam(req.Token)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		id, err := svc.EnsureProposal(c.Request().Context(), caller, token, req.StationRequestID, req.OpKind)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]uint64{"proposal_id": uint64(id)})
	}
}

type voteRequest struct {
	Caller           string `json:"caller"`
	Token            string `json:"token"`
	StationRequestID string `json:"station_request_id"`
	Yes              bool   `json:"yes"`
}

func handleVote(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req voteRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		caller, err := principalFromParam(req.Caller)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed caller principal")
		}
		token, err := principalFromParam(req.Token)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		choice := proposal.No
		if req.Yes {
			choice = proposal.Yes
		}
		if err := svc.Vote(c.Request().Context(), caller, token, req.StationRequestID, choice); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func handleGetProposal(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := principalFromParam(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		p, ok := svc.Get(token, c.Param("request_id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "no active proposal for this key")
		}
		return c.JSON(http.StatusOK, p)
	}
}

func handleListActive(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := principalFromParam(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		return c.JSON(http.StatusOK, svc.ListActive(token))
	}
}

func handleHasVoted(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := principalFromParam(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		user, err := principalFromParam(c.Param("user"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed user principal")
		}
		return c.JSON(http.StatusOK, map[string]bool{"voted": svc.HasVoted(user, token, c.Param("request_id"))})
	}
}

func handleGetVote(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := principalFromParam(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		user, err := principalFromParam(c.Param("user"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed user principal")
		}
		choice, voted := svc.GetVote(user, token, c.Param("request_id"))
		if !voted {
			return echo.NewHTTPError(http.StatusNotFound, "no recorded vote")
		}
		return c.JSON(http.StatusOK, map[string]string{"choice": choice.String()})
	}
}
