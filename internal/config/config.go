package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SkinningPaletteSize is the bone array length compiled into the skinned
// G-buffer shader; max_bones may not exceed it
const SkinningPaletteSize = 128

// Config is the static configuration read once at startup
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Shaders  ShaderConfig   `yaml:"shaders"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig describes the output surface
type WindowConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Title       string `yaml:"title"`
	VSync       bool   `yaml:"vsync"`
	FPSLimit    int    `yaml:"fps_limit"`   // 0 disables the limiter
	Splitscreen string `yaml:"splitscreen"` // NONE, TWO_PLAYER, FOUR_PLAYER
}

// RendererConfig holds resolution factors, shadow constants and table capacities
type RendererConfig struct {
	RenderScale       int     `yaml:"render_scale"` // G-buffer and lighting size relative to present
	FramesInFlight    int     `yaml:"frames_in_flight"`
	ShadowMapSize     int     `yaml:"shadow_map_size"`
	ShadowNearPlane   float32 `yaml:"shadow_near_plane"`
	ShadowFarPlane    float32 `yaml:"shadow_far_plane"`
	MaxRenderItems3D  int     `yaml:"max_render_items_3d"`
	MaxRenderItems2D  int     `yaml:"max_render_items_2d"`
	MaxLights         int     `yaml:"max_lights"`
	TextureArraySize  int     `yaml:"texture_array_size"`
	MaxBones          int     `yaml:"max_bones"`
	LoadingScreenRows int     `yaml:"loading_screen_rows"`
}

// ShaderConfig points at an optional directory whose files override the embedded shaders
type ShaderConfig struct {
	Dir string `yaml:"dir"`
}

// AssetsConfig locates optional PNG textures loaded at startup. A file
// named floor.png replaces the floor material.
type AssetsConfig struct {
	TexturesDir string `yaml:"textures_dir"`
}

// LoggingConfig selects the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:       1920,
			Height:      1080,
			Title:       "deferred-gl",
			VSync:       true,
			FPSLimit:    0,
			Splitscreen: "NONE",
		},
		Renderer: RendererConfig{
			RenderScale:       2,
			FramesInFlight:    2,
			ShadowMapSize:     1024,
			ShadowNearPlane:   0.05,
			ShadowFarPlane:    20.0,
			MaxRenderItems3D:  4096,
			MaxRenderItems2D:  4096,
			MaxLights:         16,
			TextureArraySize:  1024,
			MaxBones:          128,
			LoadingScreenRows: 40,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "could not read config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "could not parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate rejects values the renderer cannot allocate resources for
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPSLimit < 0 {
		return errors.Errorf("fps_limit must not be negative, got %d", c.Window.FPSLimit)
	}
	r := c.Renderer
	if r.RenderScale < 1 {
		return errors.Errorf("render_scale must be >= 1, got %d", r.RenderScale)
	}
	if r.FramesInFlight < 1 || r.FramesInFlight > 3 {
		return errors.Errorf("frames_in_flight must be 1..3, got %d", r.FramesInFlight)
	}
	if r.ShadowMapSize <= 0 {
		return errors.Errorf("shadow_map_size must be positive, got %d", r.ShadowMapSize)
	}
	if r.ShadowNearPlane <= 0 || r.ShadowFarPlane <= r.ShadowNearPlane {
		return errors.Errorf("shadow planes must satisfy 0 < near < far, got %v..%v", r.ShadowNearPlane, r.ShadowFarPlane)
	}
	if r.MaxRenderItems3D <= 0 || r.MaxRenderItems2D <= 0 || r.MaxLights <= 0 || r.TextureArraySize <= 0 || r.MaxBones <= 0 {
		return errors.New("table capacities must be positive")
	}
	if r.MaxBones > SkinningPaletteSize {
		return errors.Errorf("max_bones must be <= %d, got %d", SkinningPaletteSize, r.MaxBones)
	}
	if _, err := ParseSplitscreenMode(c.Window.Splitscreen); err != nil {
		return err
	}
	return nil
}
