package handlers

import (
	"bytes"
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"parent-portal-go/auth"
	"parent-portal-go/chatbot"
	"parent-portal-go/metrics"
	"parent-portal-go/models"
	"parent-portal-go/predictor"
	"parent-portal-go/report"
	"parent-portal-go/session"
)

const (
	loginTemplate     = "login.html"
	dashboardTemplate = "dashboard.html"

	invalidCredentials = "Invalid credentials."
	notLoggedIn        = "You are not logged in."
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PortalHandler holds the dependencies of the parent portal handlers
type PortalHandler struct {
	Sessions    session.Store
	Credentials auth.CredentialStore
	Model       predictor.Model
	Student     models.Student
	Features    []string // Model feature names, rendered as predict form fields in this order
	Metrics     *metrics.Metrics
	Pinger      Pinger // Optional
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(
	store session.Store,
	creds auth.CredentialStore,
	model predictor.Model,
	student models.Student,
	features []string,
	m *metrics.Metrics,
) *PortalHandler {
	if m == nil {
		m = metrics.New()
	}
	return &PortalHandler{
		Sessions:    store,
		Credentials: creds,
		Model:       model,
		Student:     student,
		Features:    features,
		Metrics:     m,
	}
}

func (h *PortalHandler) isLoggedIn(c *gin.Context) (bool, error) {
	return h.Sessions.IsLoggedIn(c.Request.Context(), session.ClientKey(c))
}

func (h *PortalHandler) renderDashboard(c *gin.Context, predictionText string) {
	c.HTML(http.StatusOK, dashboardTemplate, gin.H{
		"student":         h.Student,
		"features":        h.Features,
		"prediction_text": predictionText,
	})
}

func serverError(c *gin.Context) {
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// --- Session Gates ---

// RequirePage redirects clients without the session flag to the login page
func (h *PortalHandler) RequirePage(c *gin.Context) {
	ok, err := h.isLoggedIn(c)
	if err != nil {
		log.Printf("Error checking session for %s: %v", c.Request.URL.Path, err)
		serverError(c)
		c.Abort()
		return
	}
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// RequireAPI answers clients without the session flag with a fixed JSON message
func (h *PortalHandler) RequireAPI(c *gin.Context) {
	ok, err := h.isLoggedIn(c)
	if err != nil {
		log.Printf("Error checking session for %s: %v", c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check session"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusOK, gin.H{"response": notLoggedIn})
		return
	}
	c.Next()
}

// --- Page Handlers ---

// Home handles GET /
func (h *PortalHandler) Home(c *gin.Context) {
	ok, err := h.isLoggedIn(c)
	if err != nil {
		log.Printf("Error checking session in Home handler: %v", err)
		serverError(c)
		return
	}
	if ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, loginTemplate, gin.H{})
}

// LoginPage handles GET /login
func (h *PortalHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, loginTemplate, gin.H{})
}

// Login handles POST /login
func (h *PortalHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if !h.Credentials.Verify(email, password) {
		h.Metrics.Logins.WithLabelValues("failure").Inc()
		c.HTML(http.StatusOK, loginTemplate, gin.H{"error": invalidCredentials})
		return
	}

	key, err := session.EnsureClientKey(c)
	if err != nil {
		log.Printf("Error saving session cookie in Login handler: %v", err)
		serverError(c)
		return
	}
	if err := h.Sessions.SetLoggedIn(c.Request.Context(), key); err != nil {
		log.Printf("Error setting session flag in Login handler: %v", err)
		serverError(c)
		return
	}

	h.Metrics.Logins.WithLabelValues("success").Inc()
	c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard handles GET /dashboard
func (h *PortalHandler) Dashboard(c *gin.Context) {
	h.renderDashboard(c, "")
}

// Predict handles POST /predict
func (h *PortalHandler) Predict(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		log.Printf("Error reading body in Predict handler: %v", err)
		serverError(c)
		return
	}

	// Field order in the body is the feature order; names are not checked.
	features, err := predictor.ParseFeatures(string(body))
	if err != nil {
		h.Metrics.Predictions.WithLabelValues("bad_input").Inc()
		log.Printf("Error in Predict handler: %v", err)
		serverError(c)
		return
	}

	output, err := h.Model.Predict(features)
	if err != nil {
		h.Metrics.Predictions.WithLabelValues("model_error").Inc()
		log.Printf("Error in Predict handler, model failed on %v: %v", features, err)
		serverError(c)
		return
	}

	h.Metrics.Predictions.WithLabelValues("ok").Inc()
	h.renderDashboard(c, predictor.PredictionText(output))
}

// Logout handles GET /logout
func (h *PortalHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Clear(c.Request.Context(), session.ClientKey(c)); err != nil {
		log.Printf("Error clearing session flag in Logout handler: %v", err)
		serverError(c)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// ReportCard handles GET /dashboard/report.xlsx
func (h *PortalHandler) ReportCard(c *gin.Context) {
	var buf bytes.Buffer
	if err := report.WriteReportCard(&buf, h.Student); err != nil {
		log.Printf("Error in ReportCard handler: %v", err)
		serverError(c)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="report-card.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- API Handlers ---

type chatRequest struct {
	Message *string `json:"message" binding:"required"`
}

// Chatbot handles POST /chatbot
func (h *PortalHandler) Chatbot(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	intent, response := chatbot.Reply(*req.Message, h.Student)
	h.Metrics.Intents.WithLabelValues(intent).Inc()
	c.JSON(http.StatusOK, gin.H{"response": response})
}

// --- Ping Handler ---

// Ping handles GET /ping, checking the session backend when it can be pinged
func (h *PortalHandler) Ping(c *gin.Context) {
	if h.Pinger != nil {
		if err := h.Pinger.Ping(c.Request.Context()); err != nil {
			log.Printf("Ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Session store unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
