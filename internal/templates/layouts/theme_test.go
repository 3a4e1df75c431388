package layouts

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/violetshores/vac-themes/internal/themes"
)

func TestDocumentIgnoresUndeclaredElements(t *testing.T) {
	doc := NewDocument(themes.NavBadgeID)

	if doc.SetBackground(themes.AmbientSelector, "red") {
		t.Fatalf("SetBackground reported an undeclared element")
	}
	if doc.SetAttribute(themes.TrustGradFromID, "stop-color", "#000") {
		t.Fatalf("SetAttribute reported an undeclared element")
	}
	if !doc.SetText(themes.NavBadgeID, "VERIFIED") {
		t.Fatalf("SetText did not report the declared badge")
	}
	if doc.Background(themes.AmbientSelector) != "" {
		t.Fatalf("undeclared background was stored")
	}
}

func TestRootCSS(t *testing.T) {
	doc := NewDocument()
	doc.SetStyleVar("--text", "#FFFFFF")
	doc.SetStyleVar("--bg", "#000000")
	doc.SetStyleVar("--accent-bg", "rgba(1,2,3,0.06)")
	doc.SetStyleVar("--evil", "red;}</style><script>")
	doc.SetStyleVar("bad name", "#000000")
	doc.SetStyleVar("--blank", " ")

	want := ":root{--accent-bg:rgba(1,2,3,0.06);--bg:#000000;--text:#FFFFFF;}"
	if got := doc.RootCSS(); got != want {
		t.Fatalf("RootCSS() = %q, want %q", got, want)
	}
}

func TestVerifyPageRendersAppliedTheme(t *testing.T) {
	reg, err := themes.LoadEmbeddedRegistry()
	if err != nil {
		t.Fatalf("LoadEmbeddedRegistry() error = %v", err)
	}

	doc := NewVerifyDocument()
	theme := reg.Apply(doc, "defense")

	var buf bytes.Buffer
	if err := VerifyPage(doc, theme, VerifyPageData{Message: "Chain <valid>"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render verify page: %v", err)
	}
	body := buf.String()

	for _, want := range []string{
		`data-theme="defense"`,
		"--bg:#060A0E;",
		`<span id="nav-badge" class="nav-badge">CHAIN VALID</span>`,
		`<stop id="trustGradFrom" offset="0%" stop-color="#10B981"/>`,
		`<stop id="trustGradTo" offset="100%" stop-color="#22D3EE"/>`,
		`class="ambient" style="background: radial-gradient(`,
		"Chain &lt;valid&gt;",
		"Cryptographic chain of command for autonomous systems.",
		"<h1>Verification</h1>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("verify page missing %q", want)
		}
	}
}

func TestVerifyPageIdempotentApply(t *testing.T) {
	reg, err := themes.LoadEmbeddedRegistry()
	if err != nil {
		t.Fatalf("LoadEmbeddedRegistry() error = %v", err)
	}

	render := func(applications int) string {
		doc := NewVerifyDocument()
		theme := reg.Get("nist")
		for i := 0; i < applications; i++ {
			theme = reg.Apply(doc, "nist")
		}
		var buf bytes.Buffer
		if err := VerifyPage(doc, theme, VerifyPageData{}).Render(context.Background(), &buf); err != nil {
			t.Fatalf("render verify page: %v", err)
		}
		return buf.String()
	}

	if render(1) != render(2) {
		t.Fatalf("applying the theme twice changed the rendered page")
	}
}
