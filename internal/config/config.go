package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/user/te_viewer_go/internal/parser"
	"github.com/user/te_viewer_go/internal/report"
)

// Global configuration structure.
type Global struct {
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
	Extension   string `mapstructure:"extension" yaml:"extension"`
	PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`

	// Chart
	Backend       string  `mapstructure:"backend" yaml:"backend"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	LineWidth     float64 `mapstructure:"line_width" yaml:"line_width"`
	XMargin       float64 `mapstructure:"x_margin" yaml:"x_margin"`
	GridAlpha     float64 `mapstructure:"grid_alpha" yaml:"grid_alpha"`
	TitlePrefix   string  `mapstructure:"title_prefix" yaml:"title_prefix"`
	XLabel        string  `mapstructure:"x_label" yaml:"x_label"`
	YLabel        string  `mapstructure:"y_label" yaml:"y_label"`
	TitleFontSize float64 `mapstructure:"title_font_size" yaml:"title_font_size"`
	LabelFontSize float64 `mapstructure:"label_font_size" yaml:"label_font_size"`

	// Cleaning and reports
	ClipSigma float64 `mapstructure:"clip_sigma" yaml:"clip_sigma"`
	Heatmap   bool    `mapstructure:"heatmap" yaml:"heatmap"`
}

// DefaultPath returns ~/.tedata/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tedata", "config.yaml"), nil
}

// Save writes the given configuration to cfgFile, or to DefaultPath when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("extension", parser.DefaultExtension)
	v.SetDefault("preview_rows", report.DefaultPreviewRows)
	v.SetDefault("backend", report.BackendGonum)
	v.SetDefault("chart_width_in", 12.0)
	v.SetDefault("chart_height_in", 6.0)
	v.SetDefault("line_width", 1.5)
	v.SetDefault("x_margin", 0.01)
	v.SetDefault("grid_alpha", 0.7)
	v.SetDefault("title_prefix", "Data visualization")
	v.SetDefault("x_label", "Sample")
	v.SetDefault("y_label", "Value")
	v.SetDefault("title_font_size", 12.0)
	v.SetDefault("label_font_size", 10.0)
	v.SetDefault("clip_sigma", 3.0)
	v.SetDefault("heatmap", true)
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env (TEDATA_*), and defaults.
// A missing config file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TEDATA")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".tedata"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			// optional read
			_ = v.ReadInConfig()
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Chart converts the chart settings into the renderer configuration.
func (c *Global) Chart() report.ChartConfig {
	cfg := report.DefaultChartConfig()
	if c.ChartWidthIn > 0 {
		cfg.Width = vg.Length(c.ChartWidthIn) * vg.Inch
	}
	if c.ChartHeightIn > 0 {
		cfg.Height = vg.Length(c.ChartHeightIn) * vg.Inch
	}
	if c.LineWidth > 0 {
		cfg.LineWidth = vg.Points(c.LineWidth)
	}
	if c.XMargin >= 0 {
		cfg.XMargin = c.XMargin
	}
	if c.GridAlpha > 0 {
		cfg.GridAlpha = c.GridAlpha
	}
	if c.TitleFontSize > 0 {
		cfg.TitleFontSize = vg.Points(c.TitleFontSize)
	}
	if c.LabelFontSize > 0 {
		cfg.LabelFontSize = vg.Points(c.LabelFontSize)
	}
	cfg.TitlePrefix = c.TitlePrefix
	cfg.XLabel = c.XLabel
	cfg.YLabel = c.YLabel
	return cfg
}

// LoadOptions returns the loader settings.
func (c *Global) LoadOptions() parser.LoadOptions {
	return parser.LoadOptions{Extension: c.Extension}
}
