package handler

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html := renderMarkdown("每天 **5 公里**")
	if !strings.Contains(html, "<strong>") {
		t.Fatalf("expected rendered markdown to contain <strong>, got %q", html)
	}
}

func TestRenderMarkdownSanitizesScript(t *testing.T) {
	html := renderMarkdown("hello <script>alert(1)</script>")
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script tags to be stripped, got %q", html)
	}
}

func TestRenderMarkdownEmptyInput(t *testing.T) {
	if got := renderMarkdown("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
