package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexusvision/studio/internal/auth"
	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/internal/database"
	"github.com/nexusvision/studio/internal/entitlement"
	"github.com/nexusvision/studio/internal/gallery"
	"github.com/nexusvision/studio/internal/generation"
	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/middleware"
	"github.com/nexusvision/studio/internal/payment"
	"github.com/nexusvision/studio/internal/session"
	"github.com/nexusvision/studio/pkg/models"
)

// API carries the wired services for the HTTP handlers.
type API struct {
	cfg         *config.Config
	log         *logging.Logger
	db          *database.DB
	sessions    *session.Store
	auth        *auth.Service
	entitlement *entitlement.Service
	gallery     *gallery.Service
	generation  *generation.Service
	checkout    *payment.Client
	payments    *payment.Service
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (api *API) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	user, err := api.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, models.ErrDuplicateEmail) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.IsAdmin, api.cfg.Auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

func (api *API) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := api.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.IsAdmin, api.cfg.Auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (api *API) logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := api.auth.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) currentUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := api.auth.Current(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (api *API) listPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": entitlement.Plans()})
}

type checkoutRequest struct {
	PlanID models.PlanID `json:"plan_id" binding:"required"`
}

func (api *API) createCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, ok := entitlement.LookupPlan(req.PlanID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	userID, _ := middleware.GetUserID(c)

	payer := models.CheckoutPayer{}
	if user, err := api.auth.Current(c.Request.Context(), userID); err == nil && user != nil {
		payer.Name = user.Name
		payer.Email = user.Email
	}

	items := []models.CheckoutItem{{
		Title:     plan.Name,
		Quantity:  1,
		UnitPrice: plan.Price,
	}}

	preference, err := api.checkout.CreatePreference(c.Request.Context(), items, payer, userID, plan.ID)
	if err != nil {
		api.log.WithUserID(userID).ErrorWithErr("failed to create checkout preference", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preference":   preference,
		"redirect_url": preference.RedirectURL(),
	})
}

func (api *API) paymentWebhook(c *gin.Context) {
	var notification models.PaymentNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if notification.Type == "" {
		notification.Type = c.Query("type")
	}

	if err := api.payments.Intake(c.Request.Context(), &notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept notification"})
		return
	}

	c.Status(http.StatusOK)
}

func (api *API) generate(c *gin.Context) {
	var brief models.Brief
	if err := c.ShouldBindJSON(&brief); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.GetUserID(c)

	result, err := api.generation.Generate(c.Request.Context(), userID, &brief)
	if errors.Is(err, models.ErrInsufficientCredits) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient credits"})
		return
	}
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Generation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (api *API) listHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	records, err := api.gallery.ListHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (api *API) getHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	record, err := api.gallery.GetHydratedHistory(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrHistoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "History record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history record"})
		return
	}

	// History is private to its owner
	if record.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "History record not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (api *API) listShowcase(c *gin.Context) {
	items, err := api.gallery.ListShowcaseItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list showcase"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type showcaseBulkRequest struct {
	Row   models.ShowcaseRow           `json:"row" binding:"required"`
	Items []gallery.ShowcaseSubmission `json:"items" binding:"required"`
}

func (api *API) addShowcaseItems(c *gin.Context) {
	var req showcaseBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Row.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Row must be 'top' or 'bottom'"})
		return
	}

	accepted, rejected, err := api.gallery.AddShowcaseItems(c.Request.Context(), req.Row, req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add showcase items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"rejected": rejected,
	})
}

func (api *API) deleteShowcaseItem(c *gin.Context) {
	if err := api.gallery.DeleteShowcaseItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete showcase item"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) getHeroExample(c *gin.Context) {
	hero, err := api.gallery.GetHeroExample(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load hero example"})
		return
	}

	c.JSON(http.StatusOK, hero)
}

type heroRequest struct {
	Input   string `json:"input"`
	Prompt  string `json:"prompt"`
	Caption string `json:"caption"`
	Image   string `json:"image"`
}

func (api *API) setHeroExample(c *gin.Context) {
	var req heroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hero, err := api.gallery.SetHeroExample(c.Request.Context(), req.Input, req.Prompt, req.Caption, req.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hero example"})
		return
	}

	c.JSON(http.StatusOK, hero)
}

func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := gin.H{}

	if err := api.db.Health(ctx); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if err := api.sessions.Ping(ctx); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		checks["sessions"] = err.Error()
	} else {
		checks["sessions"] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "checks": checks})
}
