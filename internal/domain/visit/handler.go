package visit

import (
	"errors"
	"net/http"
	"time"

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
	staff := api.Group("/medical/staff", auth.RequireRole(auth.RoleStaff))
	staff.POST("/record", h.Submit)
	staff.GET("/records", h.DayLog)

	api.GET("/records/:rollno", h.History, auth.RequireSelfOrStaff("rollno"))
}

func (h *Handler) Submit(c echo.Context) error {
	var sub Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	visitID, err := h.svc.Submit(c.Request().Context(), &sub)
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, stockErr.Error())
	case validate.Is(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return envelope.OK(c, http.StatusCreated, map[string]int64{"visit_id": visitID})
}

func (h *Handler) History(c echo.Context) error {
	pg := pagination.FromContext(c)
	entries, total, err := h.svc.History(c.Request().Context(), c.Param("rollno"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}

func (h *Handler) DayLog(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	pg := pagination.FromContext(c)
	entries, total, err := h.svc.DayLog(c.Request().Context(), day, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}
