package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateEmbedded(t *testing.T) {
	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.HasPrefix(out, "ok: 4 themes") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "default\t") {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestResolve(t *testing.T) {
	out, err := execute(t, "resolve", "reviewer@dhs.gov")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if got := strings.TrimSpace(out); got != "nist" {
		t.Fatalf("resolve = %q, want nist", got)
	}

	if _, err := execute(t, "resolve"); err == nil {
		t.Fatalf("resolve without an address succeeded")
	}
}

func TestTokens(t *testing.T) {
	out, err := execute(t, "tokens", "enterprise")
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	var tokens map[string]string
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if tokens["id"] != "enterprise" {
		t.Fatalf("tokens id = %q", tokens["id"])
	}
}

func TestValidateRejectsDanglingDomain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.yaml")
	if err := os.WriteFile(path, []byte("domains:\n  \"example.org\": missing\n"), 0o600); err != nil {
		t.Fatalf("write domains: %v", err)
	}

	_, err := execute(t, "--domains", path, "validate")
	if err == nil || !strings.Contains(err.Error(), "example.org -> missing") {
		t.Fatalf("validate error = %v, want unknown theme reference", err)
	}
}
