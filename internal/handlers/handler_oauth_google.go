package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notely/notely_backend/internal/core/domain"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/middleware"
	"github.com/notely/notely_backend/internal/platform/config"
)

// oauthStateCookie carries the CSRF state between the consent redirect and
// the provider callback.
const oauthStateCookie = "oauth_state"

// GoogleOAuthHandler handles the Google OAuth redirect/callback flow. No
// password verification happens on this path; trust is delegated entirely to
// Google's signed assertion.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	cfg                *config.Config
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: services.GoogleOAuthHandler,
		userService:        services.User,
		tokenService:       services.TokenService,
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(cfg, services)
	googleRoutes := rg.Group("/auth/google")
	{
		googleRoutes.GET("", h.RedirectToGoogle)
		googleRoutes.GET("/callback", h.CallbackGoogle)
	}
}

func (h *GoogleOAuthHandler) failureRedirect(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendBaseURL+"/login?error=oauth_failed")
}

// RedirectToGoogle godoc
// @Summary Start Google login
// @Description Redirects the client to Google's consent screen with a CSRF state cookie.
// @Tags oauth
// @Success 307
// @Router /auth/google [get]
func (h *GoogleOAuthHandler) RedirectToGoogle(c *gin.Context) {
	state, err := h.googleOAuthService.GenerateStateString(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		h.failureRedirect(c)
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(c.Request.Context(), state))
}

// CallbackGoogle godoc
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, reconciles the external identity and sets the session cookie.
// @Tags oauth
// @Success 307
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		logger.Warn("OAuth state mismatch or missing")
		h.failureRedirect(c)
		return
	}
	// State is single-use.
	http.SetCookie(c.Writer, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	code := c.Query("code")
	if code == "" {
		logger.Warn("Authorization code missing in OAuth callback")
		h.failureRedirect(c)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		h.failureRedirect(c)
		return
	}

	// Prefer the signed ID token; fall back to the userinfo endpoint when
	// the provider response carries none.
	var profile domain.GoogleUserInfo
	if idTokenString, ok := oauth2Token.Extra("id_token").(string); ok && idTokenString != "" {
		payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
		if err != nil {
			logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
			h.failureRedirect(c)
			return
		}
		profile.ID = payload.Subject
		profile.Email, _ = payload.Claims["email"].(string)
		profile.Name, _ = payload.Claims["name"].(string)
		profile.Picture, _ = payload.Claims["picture"].(string)
	} else {
		userInfo, err := h.googleOAuthService.GetUserInfo(ctx, oauth2Token)
		if err != nil {
			logger.Error("Failed to fetch user info from Google", slog.String("error", err.Error()))
			h.failureRedirect(c)
			return
		}
		profile = *userInfo
	}

	if profile.Email == "" || profile.ID == "" {
		logger.Error("Essential claims (email or sub) missing from Google profile")
		h.failureRedirect(c)
		return
	}

	user, err := h.userService.CreateOAuthUser(ctx, profile.Name, profile.Email, profile.Picture, domain.ProviderGoogle, profile.ID)
	if err != nil {
		logger.Error("Failed to create or get OAuth user", slog.String("error", err.Error()), slog.String("google_user_id", profile.ID))
		h.failureRedirect(c)
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate session token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		h.failureRedirect(c)
		return
	}

	setSessionCookie(c, h.cfg, accessToken)
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendBaseURL)
}
