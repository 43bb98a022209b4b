// Package httpapi exposes the development backend over REST with gin.
package httpapi

import (
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/logging"
	"github.com/dmitrijs2005/butcherdesk/internal/server/catalog"
	"github.com/dmitrijs2005/butcherdesk/internal/server/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Options configures the router.
type Options struct {
	Users    *users.Service
	Catalog  *catalog.Service
	Logger   logging.Logger
	BasePath string
	// AllowOrigins lists browser origins allowed by CORS. Empty allows any.
	AllowOrigins []string
}

type handler struct {
	users   *users.Service
	catalog *catalog.Service
	logger  logging.Logger
}

// NewRouter builds the gin engine with every route under opts.BasePath.
func NewRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}
	h := &handler{users: opts.Users, catalog: opts.Catalog, logger: logger.With("module", "httpapi")}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(h.logger))
	engine.Use(corsMiddleware(opts.AllowOrigins))

	api := engine.Group(opts.BasePath)
	api.GET(common.HealthPath, h.health)
	api.POST(common.LoginPath, h.login)
	api.POST(common.RefreshPath, h.refresh)

	secured := api.Group("")
	secured.Use(h.requireAuth())
	secured.GET(common.MePath, h.me)

	registerCollection(secured, "/inventory/products/", opts.Catalog.Products, nil)
	registerCollection(secured, "/suppliers/", opts.Catalog.Suppliers, nil)
	registerCollection(secured, "/customers/", opts.Catalog.Customers, nil)
	registerCollection(secured, "/messages/", opts.Catalog.Messages, nil)
	registerCollection(secured, "/orders/", opts.Catalog.Orders, h.createOrder)
	secured.PATCH("/orders/:id/", h.patchOrder)

	registerCollection(secured, "/documents/", opts.Catalog.Documents, nil)
	reviewers := secured.Group("/documents/:id", requireRole(users.RoleVeterinarian, users.RoleStaff))
	reviewers.POST("/approve/", h.reviewDocument(true))
	reviewers.POST("/reject/", h.reviewDocument(false))

	return engine
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", common.AuthorizationHeaderName, common.RequestIDHeaderName},
		ExposeHeaders: []string{"Content-Length", common.RequestIDHeaderName},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// requestLogger tags every request with an id, echoing the caller's one when
// present, and logs the outcome.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, id)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", id,
		)
	}
}
