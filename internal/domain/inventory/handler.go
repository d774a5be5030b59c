package inventory

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelmed/clinic/internal/platform/auth"
	"github.com/hostelmed/clinic/pkg/envelope"
	"github.com/hostelmed/clinic/pkg/pagination"
	"github.com/hostelmed/clinic/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleStaff))
	staff.GET("/inventory", h.List)
	staff.GET("/inventory/:medicine", h.Get)
	staff.PUT("/inventory", h.Restock)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("medicine"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, item)
}

type restockRequest struct {
	Medicine string `json:"medicine"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) Restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.svc.Restock(c.Request().Context(), req.Medicine, req.Quantity)
	switch {
	case validate.Is(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, item)
}
