package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

const codeVerifierCookie = "twitter_code_verifier"

type ConnectHandler struct {
	s   service.ConnectService
	cfg config.Config
}

func NewConnectHandler(cfg config.Config, service service.ConnectService) *ConnectHandler {
	return &ConnectHandler{s: service, cfg: cfg}
}

func stateCookieName(platform string) string {
	return platform + "_oauth_state"
}

// Connect begins the authorization handshake: a fresh state nonce (and, for
// PKCE platforms, a code verifier) is pinned to the browser in short-lived
// cookies before redirecting to the provider's consent screen.
func (h *ConnectHandler) Connect(c *fiber.Ctx) error {
	platformName := c.Params("platform")

	client, ok := h.s.Client(platformName)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unsupported platform",
		})
	}

	if _, err := h.sessionUserID(c); err != nil {
		return c.Redirect(h.cfg.FrontendURL+"/login?error=authentication_required", fiber.StatusTemporaryRedirect)
	}

	state, err := utils.GenerateState()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	h.setHandshakeCookie(c, stateCookieName(platformName), state)

	var codeChallenge string
	if client.RequiresPKCE() {
		pkce, err := utils.GeneratePKCE()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong",
			})
		}
		h.setHandshakeCookie(c, codeVerifierCookie, pkce.CodeVerifier)
		codeChallenge = pkce.CodeChallenge
	}

	return c.Redirect(client.AuthorizationURL(state, codeChallenge))
}

// Callback finishes the handshake. Every failure redirects back to the
// frontend settings page with error={platform}_oauth_{reason} so the UI can
// explain what happened.
func (h *ConnectHandler) Callback(c *fiber.Ctx) error {
	platformName := c.Params("platform")

	client, ok := h.s.Client(platformName)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unsupported platform",
		})
	}

	expectedState := c.Cookies(stateCookieName(platformName))
	codeVerifier := c.Cookies(codeVerifierCookie)
	clearCookie(c, stateCookieName(platformName))
	clearCookie(c, codeVerifierCookie)

	if providerError := c.Query("error"); providerError != "" {
		return h.redirectError(c, platformName, providerError)
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return h.redirectError(c, platformName, "missing_params")
	}

	if expectedState == "" {
		return h.redirectError(c, platformName, "expired")
	}
	if !utils.VerifyState(state, expectedState) {
		return h.redirectError(c, platformName, "invalid_state")
	}
	if client.RequiresPKCE() && codeVerifier == "" {
		return h.redirectError(c, platformName, "expired")
	}

	userID, err := h.sessionUserID(c)
	if err != nil {
		return c.Redirect(h.cfg.FrontendURL+"/login?error=authentication_required", fiber.StatusTemporaryRedirect)
	}

	err = h.s.Connect(c.Context(), userID, platformName, code, codeVerifier)
	if err != nil {
		reason := "failed"
		if fe, ok := err.(*service.FlowError); ok {
			reason = fe.Reason
		}
		return h.redirectError(c, platformName, reason)
	}

	redirectURL := fmt.Sprintf("%s/dashboard/settings?success=%s_connected", h.cfg.FrontendURL, platformName)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *ConnectHandler) ListConnections(c *fiber.Ctx) error {
	userID := GetUserID(c)

	connections, err := h.s.ListConnections(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch connections",
		})
	}

	return c.Status(fiber.StatusOK).JSON(connections)
}

func (h *ConnectHandler) Disconnect(c *fiber.Ctx) error {
	userID := GetUserID(c)
	platformName := c.Params("platform")

	if _, ok := h.s.Client(platformName); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unsupported platform",
		})
	}

	err := h.s.Disconnect(c.Context(), userID, platformName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ConnectHandler) sessionUserID(c *fiber.Ctx) (int64, error) {
	claims, err := utils.ValidateToken(h.cfg.SecretKey, c.Cookies(h.cfg.CookieName))
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(claims.UserID, 10, 64)
}

func (h *ConnectHandler) setHandshakeCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.cfg.Environment == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		MaxAge:   600,
	})
}

func (h *ConnectHandler) redirectError(c *fiber.Ctx, platformName, reason string) error {
	redirectURL := fmt.Sprintf("%s/dashboard/settings?error=%s_oauth_%s", h.cfg.FrontendURL, platformName, reason)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
