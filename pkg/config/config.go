// Package config は bmpview の設定ファイル（YAML）を扱う
package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v2"
)

// Config はローダーとビューアの設定を保持する
type Config struct {
	CanvasHeight  int          `yaml:"canvas_height"`  // セグメント1つあたりの行数
	MaxCanvases   int          `yaml:"max_canvases"`   // セグメント数の上限
	ScratchPixels int          `yaml:"scratch_pixels"` // 読み込みバッファのピクセル数
	Window        WindowConfig `yaml:"window"`
}

// WindowConfig はウィンドウの設定を保持する
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"` // 背景色（#RRGGBB）
}

// Default 既定の設定を返す
func Default() *Config {
	return &Config{
		CanvasHeight:  40,
		MaxCanvases:   128,
		ScratchPixels: 200,
		Window: WindowConfig{
			Title:      "bmpview",
			Width:      1024,
			Height:     768,
			Background: "#0087C8",
		},
	}
}

// Load 設定ファイルを読み込む。ファイルが存在しない場合は既定値を返す
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// validate 設定値の範囲を検証する
func (c *Config) validate() error {
	if c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas_height must be positive, got %d", c.CanvasHeight)
	}
	if c.MaxCanvases <= 0 {
		return fmt.Errorf("max_canvases must be positive, got %d", c.MaxCanvases)
	}
	if c.ScratchPixels <= 0 {
		return fmt.Errorf("scratch_pixels must be positive, got %d", c.ScratchPixels)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// BackgroundColor 背景色（#RRGGBB）をcolor.RGBAに変換する
func (c *Config) BackgroundColor() (color.RGBA, error) {
	s := c.Window.Background
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid background color %q (want #RRGGBB)", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid background color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
