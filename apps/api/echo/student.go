package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusoma/portal/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(e *echo.Echo, svc *student.Service) {
	api := studentApi{svc: svc}

	// guarded by the route guard; any authenticated principal may call these
	e.GET("/api/students", api.query)
	e.POST("/api/students", api.create)

	// diagnostics; public
	e.GET("/api/test-backend", api.testBackend)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.ListFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ListFilter")
	}

	page, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	created, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *studentApi) testBackend(ctx echo.Context) error {
	data, err := api.svc.CheckBackend(ctx.Request().Context())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, TestBackendResponse{
			Success:    false,
			BackendURL: api.svc.BaseURL(),
			Error:      errors.Cause(err).Error(),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return ctx.JSON(http.StatusOK, TestBackendResponse{
		Success:         true,
		BackendURL:      api.svc.BaseURL(),
		BackendResponse: data,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})
}

type TestBackendResponse struct {
	Success         bool        `json:"success"`
	BackendURL      string      `json:"backend_url"`
	BackendResponse interface{} `json:"backend_response,omitempty"`
	Error           string      `json:"error,omitempty"`
	Timestamp       string      `json:"timestamp"`
}
