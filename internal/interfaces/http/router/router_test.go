package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouterDefaults(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterAPIVersionOption(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "orders")
	})
	r.Register(orders).Setup()

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v2/orders").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/api/v1/orders").Code)
}

func TestRouterMountsGroupsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})
	ingestion := NewDomainGroup("ingestion", "/ingestion")
	ingestion.POST("/trigger", func(c *gin.Context) {
		c.String(http.StatusAccepted, "queued")
	})

	r.Register(orders).Register(ingestion)
	r.Setup()

	w := do(engine, http.MethodGet, "/api/v1/orders/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	assert.Equal(t, http.StatusAccepted, do(engine, http.MethodPost, "/api/v1/ingestion/trigger").Code)
}

func TestRouterUseAppliesToAllGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Stack", "router")
		c.Next()
	})

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.Register(orders).Setup()

	w := do(engine, http.MethodGet, "/api/v1/orders")
	assert.Equal(t, "router", w.Header().Get("X-Stack"))
}

func TestDomainGroupVerbs(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("orders", "/orders")
	assert.Equal(t, "orders", g.Name())
	assert.Equal(t, "/orders", g.Prefix())

	status := func(code int) gin.HandlerFunc {
		return func(c *gin.Context) { c.Status(code) }
	}
	g.GET("", status(http.StatusOK)).
		POST("", status(http.StatusCreated)).
		PUT("/:id", status(http.StatusOK)).
		PATCH("/:id", status(http.StatusOK)).
		DELETE("/:id", status(http.StatusNoContent))

	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/orders").Code)
	assert.Equal(t, http.StatusCreated, do(engine, http.MethodPost, "/api/v1/orders").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodPut, "/api/v1/orders/1").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodPatch, "/api/v1/orders/1").Code)
	assert.Equal(t, http.StatusNoContent, do(engine, http.MethodDelete, "/api/v1/orders/1").Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("orders", "/orders")
	g.Use(func(c *gin.Context) {
		c.Header("X-Scope", "orders")
		c.Next()
	})
	g.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := do(engine, http.MethodGet, "/api/v1/orders")
	assert.Equal(t, "orders", w.Header().Get("X-Scope"))
}

func TestDomainGroupPerRouteHandlerChain(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("orders", "/orders")

	requireFlag := func(c *gin.Context) {
		if c.Query("flag") == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
	g.GET("", requireFlag, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, http.StatusForbidden, do(engine, http.MethodGet, "/api/v1/orders").Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/orders?flag=1").Code)
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("analytics", "/analytics")

	trends := g.Group("trends", "/trends")
	trends.GET("/daily", func(c *gin.Context) {
		c.String(http.StatusOK, "daily trends")
	})

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := do(engine, http.MethodGet, "/api/v1/analytics/trends/daily")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "daily trends", w.Body.String())
}
