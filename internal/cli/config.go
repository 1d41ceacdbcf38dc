package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/sorting"
	"github.com/matzehuels/barchart/pkg/errors"
)

// fileConfig is the TOML chart file passed with --config.
//
//	[chart]
//	width = 800
//	fill = "steelblue"
//	duration = "750ms"
//	sort = "descending"
//
//	[chart.margin]
//	left = 140
//
//	[cache]
//	redis = "localhost:6379"
type fileConfig struct {
	Chart chartConfig `toml:"chart"`
	Cache cacheConfig `toml:"cache"`
}

type chartConfig struct {
	Width    float64      `toml:"width"`
	Height   float64      `toml:"height"`
	Margin   marginConfig `toml:"margin"`
	Padding  *float64     `toml:"padding"`
	Fill     string       `toml:"fill"`
	Duration duration     `toml:"duration"`
	Stagger  duration     `toml:"stagger"`
	FadeIn   duration     `toml:"fade_in"`
	FadeOut  duration     `toml:"fade_out"`
	Measure  string       `toml:"measure"`
	Sort     string       `toml:"sort"`
}

// marginConfig overrides individual margins; unset sides keep the default.
type marginConfig struct {
	Top    *float64 `toml:"top"`
	Right  *float64 `toml:"right"`
	Bottom *float64 `toml:"bottom"`
	Left   *float64 `toml:"left"`
}

type cacheConfig struct {
	Disabled      bool     `toml:"disabled"`
	TTL           duration `toml:"ttl"`
	Redis         string   `toml:"redis"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
}

// duration decodes TOML strings such as "750ms" or "1s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// loadConfig reads the chart file at path. An empty path yields the zero
// config, which maps to the engine defaults.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeLoad, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Chart.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c chartConfig) validate() error {
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Padding != nil && (*c.Padding < 0 || *c.Padding >= 1) {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be in [0, 1), got %g", *c.Padding)
	}
	for _, d := range []time.Duration{c.Duration.Duration, c.Stagger.Duration, c.FadeIn.Duration, c.FadeOut.Duration} {
		if d < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "durations must not be negative, got %s", d)
		}
	}
	if c.Sort != "" {
		if _, err := sorting.ByName(c.Sort); err != nil {
			return err
		}
	}
	return nil
}

// options converts the chart section to engine options. Zero values keep
// the engine defaults.
func (c chartConfig) options() []chart.Option {
	var opts []chart.Option
	if c.Width > 0 || c.Height > 0 {
		w, h := chart.DefaultWidth, chart.DefaultHeight
		if c.Width > 0 {
			w = c.Width
		}
		if c.Height > 0 {
			h = c.Height
		}
		opts = append(opts, chart.WithSize(w, h))
	}
	if m, ok := c.Margin.apply(chart.DefaultMargin); ok {
		opts = append(opts, chart.WithMargin(m))
	}
	if c.Padding != nil {
		opts = append(opts, chart.WithPadding(*c.Padding))
	}
	if c.Fill != "" {
		opts = append(opts, chart.WithFill(c.Fill))
	}
	if c.Duration.Duration > 0 {
		opts = append(opts, chart.WithDuration(c.Duration.Duration))
	}
	if c.Stagger.Duration > 0 {
		opts = append(opts, chart.WithStagger(c.Stagger.Duration))
	}
	if c.FadeIn.Duration > 0 || c.FadeOut.Duration > 0 {
		in, out := chart.DefaultFadeIn, chart.DefaultFadeOut
		if c.FadeIn.Duration > 0 {
			in = c.FadeIn.Duration
		}
		if c.FadeOut.Duration > 0 {
			out = c.FadeOut.Duration
		}
		opts = append(opts, chart.WithFades(in, out))
	}
	return opts
}

// sorter returns the configured sort, or nil to keep input order.
func (c chartConfig) sorter() chart.Sorter {
	if c.Sort == "" {
		return nil
	}
	s, _ := sorting.ByName(c.Sort)
	return s
}

func (m marginConfig) apply(base chart.Margin) (chart.Margin, bool) {
	set := false
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{m.Top, &base.Top},
		{m.Right, &base.Right},
		{m.Bottom, &base.Bottom},
		{m.Left, &base.Left},
	} {
		if f.src != nil {
			*f.dst = *f.src
			set = true
		}
	}
	return base, set
}
