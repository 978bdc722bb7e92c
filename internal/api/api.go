package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mergington/cmd/middleware"
	"mergington/internal/service"
)

type Routers struct {
	Service   service.Service
	StaticDir string
}

func NewRouters(r *Routers) *gin.Engine {
	app := gin.New()

	app.Use(gin.Recovery())
	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	app.GET("/activities", r.Service.GetActivities)
	app.POST("/activities/:name/signup", r.Service.SignUp)
	app.DELETE("/activities/:name/unregister", r.Service.Unregister)

	app.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
	})
	if r.StaticDir != "" {
		app.Static("/static", r.StaticDir)
	}

	app.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return app
}
