package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"parent-portal-go/session"
	"parent-portal-go/templates"
)

// RouterOptions configure the middleware installed by SetupRouter
type RouterOptions struct {
	CookieName   string
	SecretKey    []byte
	SessionTTL   time.Duration
	AllowOrigins []string // CORS origins for the chatbot API; empty disables CORS
}

// SetupRouter installs templates, middleware and every portal route on router
func SetupRouter(router *gin.Engine, h *PortalHandler, opts RouterOptions) error {
	tmpl, err := templates.Parse()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	router.Use(session.CookieMiddleware(opts.CookieName, opts.SecretKey, opts.SessionTTL))

	// Public routes
	router.GET("/", h.Home)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	router.GET("/ping", h.Ping)
	router.GET("/metrics", h.Metrics.Handler())

	// Page routes
	pages := router.Group("/", h.RequirePage)
	{
		pages.GET("/dashboard", h.Dashboard)
		pages.GET("/dashboard/report.xlsx", h.ReportCard)
		pages.POST("/predict", h.Predict)
	}

	// API routes
	api := router.Group("/")
	if len(opts.AllowOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{"POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
		api.OPTIONS("/chatbot", func(c *gin.Context) {})
	}
	api.POST("/chatbot", h.RequireAPI, h.Chatbot)

	return nil
}
