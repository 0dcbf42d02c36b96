package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	p, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if p.Advice == "" || p.Thumbnail == "" || p.Chat == "" {
		t.Error("defaults should fill all prompts")
	}
	if !strings.Contains(p.Advice, "'good', 'bad', and 'improve'") {
		t.Error("advice default should request the three feedback buckets")
	}
}

func TestLoadFromOverridesSingleField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	_ = os.WriteFile(path, []byte("chat: |\n  Custom persona. Summary {{.Summary}} Q {{.Message}}\n"), 0644)

	p, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if !strings.Contains(p.Chat, "Custom persona.") {
		t.Errorf("Chat = %q, want override", p.Chat)
	}
	if p.Advice == "" {
		t.Error("Advice should keep default when not overridden")
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	_ = os.WriteFile(path, []byte("chat: ["), 0644)

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed yaml")
	}
}

func TestRenderThumbnail(t *testing.T) {
	p, _ := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	out, err := p.RenderThumbnail(ThumbnailParams{Summary: "a clutch 1v3 win", Size: 400})
	if err != nil {
		t.Fatalf("RenderThumbnail() error: %v", err)
	}
	if !strings.Contains(out, "a clutch 1v3 win") {
		t.Errorf("rendered prompt missing summary: %q", out)
	}
	if !strings.Contains(out, "400x400") {
		t.Errorf("rendered prompt missing size: %q", out)
	}
}

func TestRenderChat(t *testing.T) {
	p, _ := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	out, err := p.RenderChat(ChatParams{
		Summary: "ranked match summary",
		History: `[{"user":"hi","ai":"yo"}]`,
		Message: "how was my aim?",
	})
	if err != nil {
		t.Fatalf("RenderChat() error: %v", err)
	}

	for _, want := range []string{"ranked match summary", `[{"user":"hi","ai":"yo"}]`, "how was my aim?"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q", want)
		}
	}
}

func TestRenderAdvice(t *testing.T) {
	p, _ := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))

	out, err := p.RenderAdvice()
	if err != nil {
		t.Fatalf("RenderAdvice() error: %v", err)
	}
	if !strings.Contains(out, "valid JSON object") {
		t.Errorf("advice prompt should demand JSON output, got %q", out)
	}
}
