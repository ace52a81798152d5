package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment names understood by logging.Setup
const (
	EnvLocal = "local"
	EnvDev   = "development"
	EnvProd  = "production"
)

const envPrefix = "GLOBE"

type Settings struct {
	Env    string         `mapstructure:"env"`
	Window WindowSettings `mapstructure:"window"`
	Globe  GlobeSettings  `mapstructure:"globe"`
	Camera CameraSettings `mapstructure:"camera"`
	Sky    SkySettings    `mapstructure:"sky"`
	Marker MarkerSettings `mapstructure:"marker"`
	Grid   GridSettings   `mapstructure:"grid"`
	Server ServerSettings `mapstructure:"server"`

	// Picking turns pointer-down handling on; the minimal profile runs without it.
	Picking bool `mapstructure:"picking"`
}

type WindowSettings struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Title     string `mapstructure:"title"`
	TargetFPS int    `mapstructure:"target_fps"`
}

type Vec3 struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

type GlobeSettings struct {
	Radius         float64 `mapstructure:"radius"`
	WidthSegments  int     `mapstructure:"width_segments"`
	HeightSegments int     `mapstructure:"height_segments"`
	QuadMargin     float64 `mapstructure:"quad_margin"`
	Rotation       Vec3    `mapstructure:"rotation"`
	Texture        string  `mapstructure:"texture"`
}

type CameraSettings struct {
	Position    Vec3    `mapstructure:"position"`
	FovY        float64 `mapstructure:"fov"`
	MinDistance float64 `mapstructure:"min_distance"`
	MaxDistance float64 `mapstructure:"max_distance"`
	Damping     float64 `mapstructure:"damping"`
	EnablePan   bool    `mapstructure:"enable_pan"`
}

type SkySettings struct {
	Radius   float64 `mapstructure:"radius"`
	Segments int     `mapstructure:"segments"`
	Texture  string  `mapstructure:"texture"`
}

type MarkerSettings struct {
	Radius float64 `mapstructure:"radius"`
}

type GridSettings struct {
	Enabled   bool    `mapstructure:"enabled"`
	Size      float64 `mapstructure:"size"`
	Divisions int     `mapstructure:"divisions"`
}

type ServerSettings struct {
	Enabled   bool `mapstructure:"enabled"`
	Port      int  `mapstructure:"port"`
	QueueSize int  `mapstructure:"queue_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvProd)
	v.SetDefault("picking", true)

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "The importance of longitudal line for calculating time")
	v.SetDefault("window.target_fps", 60)

	v.SetDefault("globe.radius", 5.0)
	v.SetDefault("globe.width_segments", 64)
	v.SetDefault("globe.height_segments", 64)
	v.SetDefault("globe.quad_margin", 0.0001)
	v.SetDefault("globe.rotation.x", -0.015)
	v.SetDefault("globe.rotation.y", -math.Pi/2)
	v.SetDefault("globe.rotation.z", 0.0)
	v.SetDefault("globe.texture", "assets/earthTexture.jpg")

	v.SetDefault("camera.position.x", 0.0)
	v.SetDefault("camera.position.y", 10.0)
	v.SetDefault("camera.position.z", 10.0)
	v.SetDefault("camera.fov", 70.0)
	v.SetDefault("camera.min_distance", 7.01)
	v.SetDefault("camera.max_distance", 14.02)
	v.SetDefault("camera.damping", 0.1)
	v.SetDefault("camera.enable_pan", false)

	v.SetDefault("sky.radius", 500.0)
	v.SetDefault("sky.segments", 32)
	v.SetDefault("sky.texture", "assets/sky.jpg")

	v.SetDefault("marker.radius", 0.08)

	v.SetDefault("grid.enabled", true)
	v.SetDefault("grid.size", 15.0)
	v.SetDefault("grid.divisions", 30)

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.queue_size", 16)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a settings file (yaml or json)")
	fs.String("env", EnvProd, "environment: local, development, production")
	fs.Int("server.port", 8080, "panel server port")
	fs.Bool("server.enabled", true, "serve the browser info panel")
	fs.Float64("globe.radius", 5, "globe radius")
	fs.Int("globe.width_segments", 64, "globe longitude segments")
	fs.Int("globe.height_segments", 64, "globe latitude segments")
	fs.Int("window.width", 1280, "window width in pixels")
	fs.Int("window.height", 720, "window height in pixels")
	return fs
}

// Load reads settings from defaults, an optional settings file, GLOBE_*
// environment variables and command-line flags, in increasing precedence.
func Load(args []string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	fs := newFlagSet("globe")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MustLoad is Load that panics on error
func MustLoad(args []string) *Settings {
	s, err := Load(args)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}
	return s
}

// MinimalGlobeTexture is the globe image used by the bare viewer profile
const MinimalGlobeTexture = "assets/earth_texture.jpg"

// Minimal turns s into the bare viewer profile: a large globe on a black
// background viewed from straight ahead. Picking, the grid and the panel
// server are off. The globe texture lives at its own path.
func (s *Settings) Minimal() {
	s.Globe.Radius = 100
	s.Globe.WidthSegments = 32
	s.Globe.HeightSegments = 32
	s.Globe.QuadMargin = 0
	s.Globe.Rotation = Vec3{}
	s.Globe.Texture = MinimalGlobeTexture
	s.Camera.Position = Vec3{Z: 500}
	s.Camera.MinDistance = 0
	s.Camera.MaxDistance = math.Inf(1)
	s.Sky.Texture = ""
	s.Sky.Radius = 0
	s.Grid.Enabled = false
	s.Server.Enabled = false
	s.Picking = false
}

var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks ranges that would otherwise fail later in mesh or window setup
func (s *Settings) Validate() error {
	switch {
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidSettings, s.Window.Width, s.Window.Height)
	case s.Globe.Radius <= 0:
		return fmt.Errorf("%w: globe radius %v", ErrInvalidSettings, s.Globe.Radius)
	case s.Globe.WidthSegments < 3 || s.Globe.HeightSegments < 2:
		return fmt.Errorf("%w: globe segments %dx%d", ErrInvalidSettings, s.Globe.WidthSegments, s.Globe.HeightSegments)
	case s.Globe.QuadMargin < 0:
		return fmt.Errorf("%w: quad margin %v", ErrInvalidSettings, s.Globe.QuadMargin)
	case s.Camera.MinDistance > s.Camera.MaxDistance:
		return fmt.Errorf("%w: camera distance bounds %v > %v", ErrInvalidSettings, s.Camera.MinDistance, s.Camera.MaxDistance)
	case s.Server.Enabled && (s.Server.Port <= 0 || s.Server.Port > 65535):
		return fmt.Errorf("%w: server port %d", ErrInvalidSettings, s.Server.Port)
	}
	return nil
}
