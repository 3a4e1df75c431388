// internal/api/themes/handlers.go
package themes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/violetshores/vac-themes/internal/api/apiutil"
	"github.com/violetshores/vac-themes/internal/api/htmx"
	"github.com/violetshores/vac-themes/internal/email"
	"github.com/violetshores/vac-themes/internal/metrics"
	"github.com/violetshores/vac-themes/internal/ratelimit"
	"github.com/violetshores/vac-themes/internal/request"
	themetempl "github.com/violetshores/vac-themes/internal/templates/components/themes"
	"github.com/violetshores/vac-themes/internal/templates/layouts"
	themereg "github.com/violetshores/vac-themes/internal/themes"
)

const (
	themeIDParam      = "id"
	emailQueryKey     = "email"
	previewCode       = "482913"
	previewCodeExpiry = 10 * time.Minute
)

var (
	deps     *Deps
	depsOnce sync.Once
)

// Deps are the shared, read-only collaborators of the theme handlers.
type Deps struct {
	Themes        *themereg.Store
	Sender        email.EmailSender
	SenderAddress string
	Limiter       *ratelimit.Limiter
	TrustProxy    bool
	BaseURL       string
}

type themeSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Audience string `json:"audience"`
}

type themesListResponse struct {
	DefaultID string         `json:"defaultId"`
	Themes    []themeSummary `json:"themes"`
}

type resolveResponse struct {
	Email   string `json:"email"`
	ThemeID string `json:"themeId"`
}

type testEmailRequest struct {
	Recipient string `json:"recipient"`
	Theme     string `json:"theme"`
}

type testEmailResponse struct {
	Recipient string `json:"recipient"`
	ThemeID   string `json:"themeId"`
	Status    string `json:"status"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Deps) {
	if d.Themes == nil {
		return
	}
	depsOnce.Do(func() {
		deps = &d
	})
}

// /verify
func HandleVerifyPage(w http.ResponseWriter, r *http.Request) {
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	reg := d.Themes.Registry()
	themeID := reg.ResolveThemeIDFromLocation(request.LocationQuery(r, themereg.ThemeQueryParam))
	metrics.ThemeResolutionsTotal.WithLabelValues(metrics.SourceLocation, themeID).Inc()

	doc := layouts.NewVerifyDocument()
	theme := reg.Apply(doc, themeID)

	page := layouts.VerifyPage(doc, theme, layouts.VerifyPageData{
		Message: "Your identity has been verified.",
	})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render verify page", "Failed to render page")
}

// /api/v1/themes
func HandleThemesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	reg := d.Themes.Registry()
	all := reg.All()
	if htmx.IsRequest(r) {
		component := themetempl.ThemeList(all, reg.DefaultID())
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render themes list", "Failed to render list")
		return
	}

	resp := themesListResponse{
		DefaultID: reg.DefaultID(),
		Themes:    make([]themeSummary, 0, len(all)),
	}
	for _, theme := range all {
		resp.Themes = append(resp.Themes, themeSummary{ID: theme.ID, Name: theme.Name, Audience: theme.Audience})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write themes list response")
	}
}

// /api/v1/themes/{id}
func HandleThemeDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	theme := d.Themes.Registry().Get(r.PathValue(themeIDParam))
	if err := apiutil.WriteJSON(w, http.StatusOK, theme); err != nil {
		logger.Error().Err(err).Str("theme_id", theme.ID).Msg("Failed to write theme response")
	}
}

// /api/v1/themes/{id}/email-tokens
func HandleEmailTokens(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	tokens := d.Themes.Registry().EmailTokens(r.PathValue(themeIDParam))
	if err := apiutil.WriteJSON(w, http.StatusOK, tokens); err != nil {
		logger.Error().Err(err).Str("theme_id", tokens.ID).Msg("Failed to write email tokens response")
	}
}

// /api/v1/themes/{id}/email-preview
func HandleEmailPreview(w http.ResponseWriter, r *http.Request) {
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	tokens := d.Themes.Registry().EmailTokens(r.PathValue(themeIDParam))
	message, err := email.BuildVerificationEmail(r.Context(), previewDetails(d, tokens.ID), tokens)
	if err != nil {
		apiutil.WriteHandlerError(w, r, apiutil.HandlerError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build email preview",
			Err:     err,
		})
		return
	}

	apiutil.RenderHTMLComponent(r.Context(), w, templ.Raw(message.HTMLBody), map[string]string{
		"X-Email-Subject": message.Subject,
	}, "Failed to render email preview", "Failed to render preview")
}

// /api/v1/themes/resolve
func HandleResolve(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	address, err := apiutil.EmailField(r.URL.Query().Get(emailQueryKey), emailQueryKey)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err)
		return
	}

	reg, domains := d.Themes.Snapshot()
	theme := reg.Get(domains.ResolveThemeIDForEmail(address))
	metrics.ThemeResolutionsTotal.WithLabelValues(metrics.SourceEmail, theme.ID).Inc()

	if htmx.IsRequest(r) {
		component := themetempl.ResolvedTheme(address, theme)
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render theme resolution", "Failed to render resolution")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, resolveResponse{Email: address, ThemeID: theme.ID}); err != nil {
		logger.Error().Err(err).Msg("Failed to write resolve response")
	}
}

// /api/v1/themes/test-email
func HandleTestEmail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	d, ok := requireDeps(w, r)
	if !ok {
		return
	}

	if d.Sender == nil {
		http.Error(w, "Email delivery is not configured", http.StatusServiceUnavailable)
		return
	}

	var req testEmailRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	recipient, err := apiutil.EmailField(req.Recipient, "recipient")
	if err != nil {
		apiutil.WriteHandlerError(w, r, err)
		return
	}
	reg, domains := d.Themes.Snapshot()
	explicit := strings.TrimSpace(req.Theme)
	if explicit != "" && !reg.Has(explicit) {
		apiutil.WriteHandlerError(w, r, apiutil.FieldError{Field: "theme", Reason: "is not a registered theme"})
		return
	}

	if d.Limiter != nil {
		ip := ratelimit.GetClientIP(r, d.TrustProxy)
		result := d.Limiter.Allow(recipient, ip)
		if !result.Allowed {
			ratelimit.LogRateLimitExceeded(recipient, ip, result.Reason)
			w.Header().Set("Retry-After", retryAfterSeconds(result.RetryAfter))
			http.Error(w, "Too many test emails, try again later", http.StatusTooManyRequests)
			return
		}
	}

	themeID := email.ThemeForRecipient(reg, domains, recipient, explicit)
	tokens := reg.EmailTokens(themeID)
	email.SendVerificationEmail(r.Context(), d.Sender, recipient, tokens, previewDetails(d, tokens.ID), d.SenderAddress, logger)

	logger.Info().
		Str("recipient", ratelimit.SanitizeIdentifier(recipient)).
		Str("theme_id", tokens.ID).
		Msg("Test email queued")

	if err := apiutil.WriteJSON(w, http.StatusAccepted, testEmailResponse{
		Recipient: recipient,
		ThemeID:   tokens.ID,
		Status:    "queued",
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write test email response")
	}
}

func previewDetails(d *Deps, themeID string) email.VerificationDetails {
	details := email.VerificationDetails{
		Code:      previewCode,
		ExpiresIn: previewCodeExpiry,
	}
	if base := strings.TrimRight(strings.TrimSpace(d.BaseURL), "/"); base != "" {
		details.VerifyURL = fmt.Sprintf("%s/verify?%s=%s", base, themereg.ThemeQueryParam, themeID)
	}
	return details
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int((d + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func requireDeps(w http.ResponseWriter, r *http.Request) (*Deps, bool) {
	d := loadDeps()
	if d == nil {
		log.Ctx(r.Context()).Error().Msg("Theme handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return d, true
}

func loadDeps() *Deps {
	return deps
}
