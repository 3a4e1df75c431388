package email

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/violetshores/vac-themes/internal/themes"
)

const defaultVerificationSubject = "Your verification code"

type VerificationDetails struct {
	RecipientName string
	Code          string
	VerifyURL     string
	ExpiresIn     time.Duration
}

func formatExpiry(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes <= 1 {
		return "This code expires in 1 minute."
	}
	return fmt.Sprintf("This code expires in %d minutes.", minutes)
}

// BuildVerificationEmail renders a verification code email using the
// colours and copy carried by tokens.
func BuildVerificationEmail(ctx context.Context, details VerificationDetails, tokens themes.EmailTokens) (Message, error) {
	code := strings.TrimSpace(details.Code)
	if code == "" {
		return Message{}, fmt.Errorf("verification code is required")
	}
	greeting := "Hello,"
	if name := strings.TrimSpace(details.RecipientName); name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}
	expiry := formatExpiry(details.ExpiresIn)
	verifyURL := strings.TrimSpace(details.VerifyURL)

	lines := []string{
		greeting,
		"",
		"Use this code to complete verification:",
		"",
		code,
	}
	if expiry != "" {
		lines = append(lines, "", expiry)
	}
	if verifyURL != "" {
		lines = append(lines, "", fmt.Sprintf("Or open: %s", verifyURL))
	}
	lines = append(lines, "", tokens.Tagline, tokens.FooterOrg)

	var buf bytes.Buffer
	component := verificationEmailComponent(greeting, code, expiry, verifyURL, tokens)
	if err := component.Render(ctx, &buf); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}

	return Message{
		Subject:  defaultVerificationSubject,
		TextBody: strings.Join(lines, "\n"),
		HTMLBody: buf.String(),
	}, nil
}

func verificationEmailComponent(greeting, code, expiry, verifyURL string, tokens themes.EmailTokens) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildVerificationEmailHTML(greeting, code, expiry, verifyURL, tokens))
		return err
	})
}

// Email clients ignore CSS custom properties, so every colour is inlined.
func buildVerificationEmailHTML(greeting, code, expiry, verifyURL string, tokens themes.EmailTokens) string {
	esc := html.EscapeString

	button := ""
	if verifyURL != "" {
		button = fmt.Sprintf(
			`<p style="margin:24px 0 0"><a href="%s" style="display:inline-block;padding:12px 24px;border-radius:8px;background:%s;color:%s;text-decoration:none;font-weight:600">Verify</a></p>`,
			esc(verifyURL), esc(tokens.AccentBtn), esc(tokens.TextPrimary),
		)
	}
	expiryHTML := ""
	if expiry != "" {
		expiryHTML = fmt.Sprintf(`<p style="margin:16px 0 0;color:%s;font-size:13px">%s</p>`, esc(tokens.TextMuted), esc(expiry))
	}

	return fmt.Sprintf(
		`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:%s;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif" data-theme="%s">
<table role="presentation" width="100%%" cellpadding="0" cellspacing="0"><tr><td align="center">
<table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:%s;border:1px solid %s;border-radius:12px">
<tr><td style="padding:32px">
<p style="margin:0 0 8px;color:%s;font-size:18px;font-weight:600">%s</p>
<p style="margin:0;color:%s;font-size:15px">Use this code to complete verification:</p>
<div style="margin:24px 0 0;padding:16px 20px;display:inline-block;font-family:monospace;font-size:28px;letter-spacing:6px;color:%s;background:%s;border:1px solid %s;border-radius:8px">%s</div>
%s%s
<p style="margin:32px 0 0;color:%s;font-size:13px;border-top:1px solid %s;padding-top:16px"><span style="color:%s">&#10003;</span> %s</p>
</td></tr>
</table>
<p style="margin:16px 0 0;color:%s;font-size:12px">%s</p>
</td></tr></table>
</body>
</html>`,
		esc(tokens.BgOuter),
		esc(tokens.ID),
		esc(tokens.BgCard),
		esc(tokens.Border),
		esc(tokens.TextPrimary),
		esc(greeting),
		esc(tokens.TextBody),
		esc(tokens.CodeColor),
		esc(tokens.CodeBg),
		esc(tokens.CodeBorder),
		esc(code),
		expiryHTML,
		button,
		esc(tokens.TextBody),
		esc(tokens.Border),
		esc(tokens.Success),
		esc(tokens.Tagline),
		esc(tokens.TextMuted),
		esc(tokens.FooterOrg),
	)
}
