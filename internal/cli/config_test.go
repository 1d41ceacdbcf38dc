package cli

import (
	"testing"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if opts := cfg.Chart.options(); len(opts) != 0 {
		t.Errorf("empty config produced %d options", len(opts))
	}
	if cfg.Chart.sorter() != nil {
		t.Error("empty config should keep input order")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "chart.toml", `
[chart]
width = 800
padding = 0.2
fill = "steelblue"
duration = "750ms"
stagger = "20ms"
fade_out = "1s"
sort = "descending"

[chart.margin]
left = 140

[cache]
redis = "localhost:6379"
prefix = "charts:"
ttl = "1h"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Redis != "localhost:6379" || cfg.Cache.Prefix != "charts:" || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if s := cfg.Chart.sorter(); s == nil || s.Name() != "descending" {
		t.Errorf("sorter = %v, want descending", s)
	}

	o := chart.DefaultOptions()
	for _, opt := range cfg.Chart.options() {
		opt(&o)
	}
	want := chart.DefaultOptions()
	want.Width = 800
	want.Margin.Left = 140
	want.Padding = 0.2
	want.Fill = "steelblue"
	want.Duration = 750 * time.Millisecond
	want.Stagger = 20 * time.Millisecond
	want.FadeOut = time.Second
	if o.Width != want.Width || o.Height != want.Height || o.Margin != want.Margin ||
		o.Padding != want.Padding || o.Fill != want.Fill || o.Duration != want.Duration ||
		o.Stagger != want.Stagger || o.FadeIn != want.FadeIn || o.FadeOut != want.FadeOut {
		t.Errorf("options = %+v, want %+v", o, want)
	}
}

func TestLoadConfigZeroPadding(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "chart.toml", "[chart]\npadding = 0.0\n"))
	if err != nil {
		t.Fatal(err)
	}
	o := chart.DefaultOptions()
	for _, opt := range cfg.Chart.options() {
		opt(&o)
	}
	if o.Padding != 0 {
		t.Errorf("Padding = %g, want explicit 0", o.Padding)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[chart\nwidth = 1", errors.ErrCodeInvalidFormat},
		{"unknown key", "[chart]\ncolour = \"red\"\n", errors.ErrCodeInvalidFormat},
		{"bad duration", "[chart]\nduration = \"soon\"\n", errors.ErrCodeInvalidFormat},
		{"negative size", "[chart]\nwidth = -1\n", errors.ErrCodeInvalidInput},
		{"padding too large", "[chart]\npadding = 1.0\n", errors.ErrCodeInvalidInput},
		{"negative duration", "[chart]\nstagger = \"-5ms\"\n", errors.ErrCodeInvalidInput},
		{"unknown sort", "[chart]\nsort = \"random\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "chart.toml", tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig("/nonexistent/chart.toml"); !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("got %v, want LOAD_ERROR", err)
	}
}
