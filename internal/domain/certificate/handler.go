package certificate

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hostelmed/clinic/internal/platform/auth"
	"github.com/hostelmed/clinic/internal/platform/blobstore"
	"github.com/hostelmed/clinic/pkg/envelope"
	"github.com/hostelmed/clinic/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/generate-and-save-certificate", h.Attach, auth.RequireRole(auth.RoleStaff))
	api.GET("/student/certificates/:rollno", h.List, auth.RequireSelfOrStaff("rollno"))
	api.GET("/download/certificate/:filename", h.Download)
}

func (h *Handler) Attach(c echo.Context) error {
	in := AttachInput{
		SerialNo: c.FormValue("serial_no"),
		Gender:   c.FormValue("gender"),
	}
	if v := c.FormValue("visit_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "visit_id must be an integer")
		}
		in.VisitID = id
	}
	if v := c.FormValue("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "age must be an integer")
		}
		in.Age = age
	}
	if v := c.FormValue("relaxations"); v != "" {
		in.Relaxations = &v
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	cert, err := h.svc.Attach(c.Request().Context(), &in, fh.Filename, src)
	switch {
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "certificate serial number already used")
	case errors.Is(err, ErrVisitNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
	case validate.Is(err),
		errors.Is(err, blobstore.ErrBadExtension),
		errors.Is(err, blobstore.ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, http.StatusCreated, cert)
}

type certificateItem struct {
	*Certificate
	DownloadURL string `json:"download_url"`
}

func (h *Handler) List(c echo.Context) error {
	certs, err := h.svc.ListByRollNo(c.Request().Context(), c.Param("rollno"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	items := make([]certificateItem, 0, len(certs))
	for _, cert := range certs {
		items = append(items, certificateItem{
			Certificate: cert,
			DownloadURL: "/api/v1/download/certificate/" + cert.FileName,
		})
	}
	return envelope.OK(c, http.StatusOK, items)
}

func (h *Handler) Download(c echo.Context) error {
	name := c.Param("filename")
	if !blobstore.ValidStoredName(name) {
		return echo.NewHTTPError(http.StatusNotFound, "certificate not found")
	}

	rc, owner, err := h.svc.Download(c.Request().Context(), name)
	if errors.Is(err, ErrNotFound) || errors.Is(err, blobstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "certificate not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) != auth.RoleStaff && auth.RollNoFromContext(ctx) != owner {
		return echo.NewHTTPError(http.StatusForbidden, "not your certificate")
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Stream(http.StatusOK, contentType, rc)
}
