package backend

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/metadata"
)

// RegisterRoutes wires the Backend's HTTP surface onto an existing echo
// instance (typically one built by internal/transport.NewRouter).
func RegisterRoutes(e *echo.Echo, svc *Service) {
	e.POST("/bindings", handleLinkStation(svc))
	e.GET("/bindings/:token", handleStationForToken(svc))

	e.POST("/operations/transfer", handleTransfer(svc))
	e.POST("/operations/construct", handleConstruct(svc))

	e.GET("/stations/:token/security", handleSecurityDashboard(svc))
	e.GET("/stations/:token/operating-agreement", handleOperatingAgreement(svc))
	e.GET("/stations/:token/accounts", handleTreasuryAccounts(svc))

	e.POST("/metadata", handleUploadMetadata(svc))
	e.GET("/metadata/:cid", handleRetrieveMetadata(svc))
}

func callerFrom(c echo.Context) identity.Principal {
	raw := c.Request().Header.Get("X-Caller-Principal")
	if raw == "" {
		return identity.Anonymous
	}
	p, err := identity.FromText(raw)
	if err != nil {
		return identity.Anonymous
	}
	return p
}

type linkStationRequest struct {
	Token   string `json:"token"`
	Station string `json:"station"`
}

func handleLinkStation(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req linkStationRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		token, err := identity.FromText(req.Token)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		stationID, err := identity.FromText(req.Station)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed station principal")
		}
		if err := svc.LinkStation(callerFrom(c), token, stationID); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func handleStationForToken(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := identity.FromText(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		stationID, err := svc.StationForToken(c.Request().Context(), token)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{"station": stationID.String()})
	}
}

type transferRequest struct {
	Token         string  `json:"token"`
	FromAccountID string  `json:"from_account_id"`
	FromAssetID   string  `json:"from_asset_id"`
	To            string  `json:"to"`
	Amount        string  `json:"amount"`
	Memo          string  `json:"memo"`
	Title         *string `json:"title,omitempty"`
	Summary       *string `json:"summary,omitempty"`
}

func handleTransfer(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req transferRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		token, err := identity.FromText(req.Token)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		resp, err := svc.Transfer(c.Request().Context(), callerFrom(c), token,
			req.FromAccountID, req.FromAssetID, req.To, req.Amount, req.Memo, req.Title, req.Summary)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, resp)
	}
}

type constructRequest struct {
	Token        string         `json:"token"`
	Tag          string         `json:"tag"`
	OperationRaw map[string]any `json:"operation_raw"`
	Title        *string        `json:"title,omitempty"`
	Summary      *string        `json:"summary,omitempty"`
	Immediate    bool           `json:"immediate"`
}

func handleConstruct(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req constructRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		token, err := identity.FromText(req.Token)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		tag := parseTag(req.Tag)
		resp, err := svc.Construct(c.Request().Context(), callerFrom(c), token, ConstructInputFromRaw(tag, req.OperationRaw, req.Title, req.Summary, req.Immediate))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, resp)
	}
}

func handleSecurityDashboard(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := identity.FromText(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		dashboard, err := svc.SecurityDashboard(c.Request().Context(), token)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dashboard)
	}
}

func handleOperatingAgreement(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := identity.FromText(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		data, err := svc.OperatingAgreement(c.Request().Context(), token)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, data)
	}
}

func handleTreasuryAccounts(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := identity.FromText(c.Param("token"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token principal")
		}
		accounts, err := svc.TreasuryAccounts(c.Request().Context(), token)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, accounts)
	}
}

func handleUploadMetadata(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var m metadata.ProposalMetadata
		if err := c.Bind(&m); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		cid, err := svc.UploadProposalMetadata(&m)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, map[string]string{"cid": cid})
	}
}

func handleRetrieveMetadata(svc *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := svc.RetrieveProposalMetadata(c.Param("cid"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, m)
	}
}
