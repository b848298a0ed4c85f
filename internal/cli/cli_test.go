package cli

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/skommel/mindweave/pkg/cache"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	want := []string{
		"build", "layout", "validate", "export", "render",
		"generate", "inspect", "cache", "completion",
	}

	got := map[string]bool{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewCacheBackendSelection(t *testing.T) {
	ctx := context.Background()

	store, keyer, err := newCache(ctx, true)
	if err != nil {
		t.Fatalf("newCache(noCache): %v", err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("noCache backend = %T, want *cache.NullCache", store)
	}
	if keyer != nil {
		t.Errorf("noCache keyer = %T, want nil", keyer)
	}

	t.Setenv(envRedisURL, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	store, keyer, err = newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache(file): %v", err)
	}
	defer store.Close()
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("default backend = %T, want *cache.FileCache", store)
	}
	if keyer != nil {
		t.Errorf("file-cache keyer = %T, want nil (default keyer)", keyer)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug message should pass at debug level")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		defaults []string
		want     []string
	}{
		{"empty uses defaults", "", []string{"svg"}, []string{"svg"}},
		{"single", "dot", []string{"svg"}, []string{"dot"}},
		{"comma separated", "json,flow,dot", nil, []string{"json", "flow", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input, tt.defaults)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		suffix string
		want   string
	}{
		{"explicit output wins", "out.json", "payload.json", ".map.json", "out.json"},
		{"derived from input", "", "payload.json", ".map.json", "payload.map.json"},
		{"chained suffix", "", "payload.map.json", ".layout.json", "payload.map.layout.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.suffix); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestExportBase(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output strips input ext", "", "ml.map.json", "ml.map"},
		{"output with format ext stripped", "out.dot", "ml.map.json", "out"},
		{"output without format ext kept", "diagrams/ml", "ml.map.json", "diagrams/ml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportBase(tt.output, tt.input); got != tt.want {
				t.Errorf("exportBase(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderBase(t *testing.T) {
	if got := renderBase("", "ml.layout.json"); got != "ml.layout" {
		t.Errorf("renderBase derived = %q, want %q", got, "ml.layout")
	}
	if got := renderBase("pic.svg", "ml.layout.json"); got != "pic" {
		t.Errorf("renderBase with svg ext = %q, want %q", got, "pic")
	}
}

func TestValidateRenderFormats(t *testing.T) {
	if err := validateRenderFormats([]string{"svg", "pdf", "png"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := validateRenderFormats([]string{"svg", "gif"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDocumentPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		topic  string
		want   string
	}{
		{"explicit output wins", "doc.json", "p.json", "", "doc.json"},
		{"derived from input", "", "p.json", "", "p.document.json"},
		{"fallback topic slug", "", "", "Water Cycle", "water-cycle.document.json"},
		{"empty topic falls back", "", "", "  ", "mindmap.document.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentPath(tt.output, tt.input, tt.topic); got != tt.want {
				t.Errorf("documentPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.topic, got, tt.want)
			}
		})
	}
}
