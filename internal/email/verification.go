package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/violetshores/vac-themes/internal/metrics"
	"github.com/violetshores/vac-themes/internal/themes"
)

const verificationEmailTimeout = 5 * time.Second

// newEmailContext keeps request values but not cancellation, so a send
// outlives the handler that queued it.
func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

// ThemeForRecipient returns explicit when it names a registered theme,
// otherwise the theme matched from the recipient's domain.
func ThemeForRecipient(reg *themes.Registry, domains *themes.DomainMap, recipient, explicit string) string {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" && reg.Has(explicit) {
		metrics.ThemeResolutionsTotal.WithLabelValues(metrics.SourceExplicit, explicit).Inc()
		return explicit
	}
	themeID := domains.ResolveThemeIDForEmail(recipient)
	metrics.ThemeResolutionsTotal.WithLabelValues(metrics.SourceEmail, reg.Get(themeID).ID).Inc()
	return themeID
}

// SendVerificationEmail renders the themed verification email and sends it
// asynchronously. The returned channel receives the delivery result once.
func SendVerificationEmail(ctx context.Context, client EmailSender, recipient string, tokens themes.EmailTokens, details VerificationDetails, sender string, logger *zerolog.Logger) <-chan error {
	done := make(chan error, 1)
	if client == nil {
		close(done)
		return done
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		close(done)
		return done
	}

	message, err := BuildVerificationEmail(ctx, details, tokens)
	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Str("theme_id", tokens.ID).Msg("Failed to build verification email")
		}
		metrics.EmailsTotal.WithLabelValues(tokens.ID, "build_failed").Inc()
		done <- err
		close(done)
		return done
	}

	go func() {
		defer close(done)
		sendCtx, cancel := newEmailContext(ctx, verificationEmailTimeout)
		defer cancel()
		if err := client.SendFrom(sendCtx, recipient, message, sender); err != nil {
			if logger != nil {
				logger.Error().Err(err).Str("theme_id", tokens.ID).Msg("Failed to send verification email")
			}
			metrics.EmailsTotal.WithLabelValues(tokens.ID, "failed").Inc()
			done <- err
			return
		}
		if logger != nil {
			logger.Info().Str("theme_id", tokens.ID).Msg("Verification email sent")
		}
		metrics.EmailsTotal.WithLabelValues(tokens.ID, "sent").Inc()
		done <- nil
	}()
	return done
}
