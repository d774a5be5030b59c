package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelmed/clinic/internal/platform/auth"
	"github.com/hostelmed/clinic/pkg/envelope"
	"github.com/hostelmed/clinic/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes wires the unauthenticated login endpoint.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/student/:rollno", h.GetStudent)
	api.PUT("/student/hostel-details", h.UpdateHostelDetails, auth.RequireRole(auth.RoleStudent))
	api.POST("/register", h.Register, auth.RequireRole(auth.RoleStaff))
}

type loginRequest struct {
	RollNo   string `json:"roll_no"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RollNo == "" || req.Password == "" || req.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "roll_no, password and role are required")
	}

	token, u, err := h.svc.Login(c.Request().Context(), req.RollNo, req.Password, req.Role)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return envelope.OK(c, http.StatusOK, map[string]string{
		"token":   token,
		"roll_no": u.RollNo,
		"role":    u.Role,
		"name":    u.Name,
	})
}

type registerRequest struct {
	RollNo   string `json:"roll_no"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Register(c.Request().Context(), req.RollNo, req.Role, req.Name, req.Password)
	switch {
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case validate.Is(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusCreated, u)
}

func (h *Handler) GetStudent(c echo.Context) error {
	u, err := h.svc.Lookup(c.Request().Context(), c.Param("rollno"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, map[string]string{
		"roll_no": u.RollNo,
		"name":    u.Name,
	})
}

func (h *Handler) UpdateHostelDetails(c echo.Context) error {
	var details HostelDetails
	if err := c.Bind(&details); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rollNo := auth.RollNoFromContext(c.Request().Context())
	err := h.svc.UpdateHostelDetails(c.Request().Context(), rollNo, details)
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "student not found")
	case validate.Is(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusOK, details)
}
