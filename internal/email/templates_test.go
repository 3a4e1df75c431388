package email

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildVerificationEmail(t *testing.T) {
	reg, _ := testRegistry(t)
	tokens := reg.EmailTokens("defense")

	message, err := BuildVerificationEmail(context.Background(), VerificationDetails{
		RecipientName: "Sam <Ops>",
		Code:          " 204 817 ",
		VerifyURL:     "https://verify.example/v?theme=defense&code=204817",
		ExpiresIn:     10 * time.Minute,
	}, tokens)
	if err != nil {
		t.Fatalf("BuildVerificationEmail() error = %v", err)
	}

	if message.Subject != defaultVerificationSubject {
		t.Fatalf("subject = %q", message.Subject)
	}
	for _, want := range []string{
		"Hello Sam <Ops>,",
		"204 817",
		"This code expires in 10 minutes.",
		"Or open: https://verify.example/v?theme=defense&code=204817",
		tokens.Tagline,
		tokens.FooterOrg,
	} {
		if !strings.Contains(message.TextBody, want) {
			t.Fatalf("text body missing %q:\n%s", want, message.TextBody)
		}
	}
	for _, want := range []string{
		"background:" + tokens.BgOuter,
		"background:" + tokens.BgCard,
		"color:" + tokens.CodeColor,
		"background:" + tokens.AccentBtn,
		"Hello Sam &lt;Ops&gt;,",
		"theme=defense&amp;code=204817",
		`data-theme="defense"`,
	} {
		if !strings.Contains(message.HTMLBody, want) {
			t.Fatalf("html body missing %q", want)
		}
	}
}

func TestBuildVerificationEmailOptionalParts(t *testing.T) {
	reg, _ := testRegistry(t)

	message, err := BuildVerificationEmail(context.Background(), VerificationDetails{Code: "1"}, reg.EmailTokens("default"))
	if err != nil {
		t.Fatalf("BuildVerificationEmail() error = %v", err)
	}
	if strings.Contains(message.HTMLBody, ">Verify</a>") {
		t.Fatalf("verify button rendered without a URL")
	}
	if strings.Contains(message.TextBody, "expires") {
		t.Fatalf("expiry rendered without a duration")
	}
	if !strings.HasPrefix(message.TextBody, "Hello,") {
		t.Fatalf("greeting = %q", strings.SplitN(message.TextBody, "\n", 2)[0])
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: ""},
		{in: -time.Minute, want: ""},
		{in: 30 * time.Second, want: "This code expires in 1 minute."},
		{in: time.Minute, want: "This code expires in 1 minute."},
		{in: 15 * time.Minute, want: "This code expires in 15 minutes."},
	}
	for _, tt := range tests {
		if got := formatExpiry(tt.in); got != tt.want {
			t.Fatalf("formatExpiry(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
