package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/secure-users-api/internal/application"
	"github.com/oksasatya/secure-users-api/pkg/apperr"
	"github.com/oksasatya/secure-users-api/pkg/response"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	response.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	response.Success(c, http.StatusOK, u, "", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	in, err := bindUser(c)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	response.Success(c, http.StatusCreated, u, "User created successfully", nil)
}

func (h *UserHandler) Replace(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	in, err := bindUser(c)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	u, err := h.Svc.Replace(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	response.Success(c, http.StatusOK, u, "User updated successfully", nil)
}

func (h *UserHandler) Patch(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	changes, err := bindPatch(c)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	u, err := h.Svc.Patch(c.Request.Context(), id, changes)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	response.Success(c, http.StatusOK, u, "User updated successfully", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err, 0)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, id)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User deleted successfully", nil)
}

// fail maps service errors onto the API error kinds and writes the response.
func (h *UserHandler) fail(c *gin.Context, err error, id int64) {
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		err = apperr.NotFound("User", id)
	case errors.Is(err, userapp.ErrEmailTaken):
		err = apperr.Conflict("Email already exists", map[string]any{"field": "email"})
	case errors.Is(err, userapp.ErrNoFieldsToUpdate):
		err = apperr.Validation("No valid fields to update", nil)
	}
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal && h.Logger != nil {
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		}).Error("user request failed")
	}
	response.Fail(c, ae)
}
