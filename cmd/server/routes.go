package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charry07/lavaca-app/internal/interfaces/http/handlers"
	"github.com/charry07/lavaca-app/internal/interfaces/http/middleware"
	"github.com/charry07/lavaca-app/pkg/jwt"
)

const serviceName = "lavaca-backend"
const serviceVersion = "1.0.0"

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	sessionHandler *handlers.SessionHandler
	feedHandler    *handlers.FeedHandler
	groupHandler   *handlers.GroupHandler
	jwtService     *jwt.JWTService
}

func buildRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())

	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerAPIV1Routes(r, d)
	return r
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	authRequired := middleware.AuthMiddleware(d.jwtService)

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/send-code", d.authHandler.SendCode)
			auth.POST("/verify-code", d.authHandler.VerifyCode)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.POST("/register", d.userHandler.Register)
			users.GET("/:id", d.userHandler.Get)
			users.PUT("/:id", authRequired, d.userHandler.Update)
		}

		// Session routes. Sessions are addressed by join code so a
		// phone that scanned a QR can hit them without extra lookups.
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", middleware.IdempotencyMiddleware(), d.sessionHandler.Create)
			sessions.GET("/user/:userId", d.sessionHandler.ListByUser)
			sessions.GET("/:joinCode", d.sessionHandler.Get)
			sessions.GET("/:joinCode/qr", d.sessionHandler.QR)
			sessions.POST("/:joinCode/join", d.sessionHandler.Join)
			sessions.POST("/:joinCode/split", d.sessionHandler.Split)
			sessions.POST("/:joinCode/pay", d.sessionHandler.Pay)
		}

		// Feed routes (public read)
		feed := v1.Group("/feed")
		{
			feed.GET("", d.feedHandler.List)
			feed.GET("/user/:userId", d.feedHandler.ListByUser)
		}

		// Group routes
		groups := v1.Group("/groups")
		{
			groups.POST("", d.groupHandler.Create)
			groups.GET("/user/:userId", d.groupHandler.ListByUser)
			groups.GET("/:id", d.groupHandler.Get)
			groups.PUT("/:id", authRequired, d.groupHandler.Update)
			groups.POST("/:id/members", d.groupHandler.AddMembers)
			groups.DELETE("/:id/members/:userId", d.groupHandler.RemoveMember)
			groups.DELETE("/:id", authRequired, d.groupHandler.Delete)
		}
	}
}
