package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/secure-users-api/internal/interface/http"
)

// UserModule wires the users CRUD handlers.
// GET /api/users, POST /api/users
// GET, PUT, PATCH, DELETE /api/users/:id
// Quotas for these routes are enforced by the request pipeline.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", m.Handler.List)
	users.POST("", m.Handler.Create)
	users.GET("/:id", m.Handler.Get)
	users.PUT("/:id", m.Handler.Replace)
	users.PATCH("/:id", m.Handler.Patch)
	users.DELETE("/:id", m.Handler.Delete)
}
