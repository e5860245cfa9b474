// Package config holds the run configuration for the dataset generator:
// asset parameters, render rig placement, and the list of render views.
// Values load from a YAML file over built-in defaults; the output directory
// can additionally be overridden through the environment.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"shapeset/internal/scene"
)

// OutputDirEnv overrides Config.OutputDir when set, so batch jobs can
// redirect artifacts without editing the config file.
const OutputDirEnv = "SHAPESET_OUTPUT_DIR"

// Config is everything a run needs. The zero value is not usable; start from
// Default or Load.
type Config struct {
	// OutputDir receives all artifacts: the mesh file, the rendered PNGs and
	// the label CSV. Created if absent.
	OutputDir string `yaml:"output_dir"`

	Sphere  SphereConfig  `yaml:"sphere"`
	Outline OutlineConfig `yaml:"outline"`
	Hoop    HoopConfig    `yaml:"hoop"`
	Render  RenderConfig  `yaml:"render"`

	// Views are the named whole-asset rotations rendered as stills, in order.
	Views []ViewConfig `yaml:"views"`
}

// SphereConfig controls the core sphere.
type SphereConfig struct {
	Radius   float64 `yaml:"radius"`
	Segments int     `yaml:"segments"`
	// Opacity is the sphere material's alpha, 0 invisible to 1 opaque.
	Opacity float64 `yaml:"opacity"`
}

// OutlineConfig controls the inverted-normal shell around the sphere.
type OutlineConfig struct {
	// Thickness is the fractional enlargement of the shell: scale = 1+Thickness.
	Thickness float64 `yaml:"thickness"`
}

// HoopConfig controls the torus hoops.
type HoopConfig struct {
	// Thickness is the tube (minor) radius of each hoop.
	Thickness float64 `yaml:"thickness"`
}

// RenderConfig places the camera and light and sizes the output stills.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FOVDeg is the camera's vertical field of view in degrees.
	FOVDeg float64 `yaml:"fov_deg"`
	// CameraPosition is where the camera sits; it always points at the origin.
	CameraPosition [3]float64 `yaml:"camera_position"`
	LightPosition  [3]float64 `yaml:"light_position"`
	LightEnergy    float64    `yaml:"light_energy"`
}

// ViewConfig is one named render view. Rotations are written in degrees in
// the file and converted to radians at load; everything past config speaks
// radians only.
type ViewConfig struct {
	Name        string     `yaml:"name"`
	RotationDeg [3]float64 `yaml:"rotation_deg"`
}

// Rotation returns the view rotation as euler radians, applied X, Y, Z.
func (v ViewConfig) Rotation() scene.Euler {
	return scene.Euler{
		X: v.RotationDeg[0] * math.Pi / 180,
		Y: v.RotationDeg[1] * math.Pi / 180,
		Z: v.RotationDeg[2] * math.Pi / 180,
	}
}

// Default returns the built-in configuration: a unit sphere with a 4% outline
// shell and thin hoops, rendered from the four standard views.
func Default() Config {
	return Config{
		OutputDir: "out/sphere_dataset",
		Sphere:    SphereConfig{Radius: 1.0, Segments: 64, Opacity: 0.4},
		Outline:   OutlineConfig{Thickness: 0.04},
		Hoop:      HoopConfig{Thickness: 0.02},
		Render: RenderConfig{
			Width:          512,
			Height:         512,
			FOVDeg:         40,
			CameraPosition: [3]float64{0, -4, 0},
			LightPosition:  [3]float64{0, -3, 3},
			LightEnergy:    500,
		},
		Views: []ViewConfig{
			{Name: "front", RotationDeg: [3]float64{0, 0, 0}},
			{Name: "side", RotationDeg: [3]float64{0, 90, 0}},
			{Name: "top", RotationDeg: [3]float64{90, 0, 0}},
			{Name: "3quarter", RotationDeg: [3]float64{35, 40, 0}},
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults untouched. A missing or malformed file is an error: a run with a
// half-read recipe would silently produce the wrong dataset.
// The OutputDirEnv override is applied last in both cases.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if dir := os.Getenv(OutputDirEnv); dir != "" {
		cfg.OutputDir = dir
	}
	return cfg, nil
}

// Validate fails fast on a configuration that cannot produce a correct
// dataset.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir must not be empty")
	}
	if c.Sphere.Radius <= 0 {
		return fmt.Errorf("config: sphere radius must be positive, got %v", c.Sphere.Radius)
	}
	if c.Sphere.Segments < 3 {
		return fmt.Errorf("config: sphere segments must be at least 3, got %d", c.Sphere.Segments)
	}
	if c.Sphere.Opacity < 0 || c.Sphere.Opacity > 1 {
		return fmt.Errorf("config: sphere opacity must be in [0, 1], got %v", c.Sphere.Opacity)
	}
	if c.Outline.Thickness <= 0 {
		return fmt.Errorf("config: outline thickness must be positive, got %v", c.Outline.Thickness)
	}
	if c.Hoop.Thickness <= 0 {
		return fmt.Errorf("config: hoop thickness must be positive, got %v", c.Hoop.Thickness)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.FOVDeg <= 0 || c.Render.FOVDeg >= 180 {
		return fmt.Errorf("config: camera fov must be in (0, 180) degrees, got %v", c.Render.FOVDeg)
	}
	if c.Render.LightEnergy < 0 {
		return fmt.Errorf("config: light energy must not be negative, got %v", c.Render.LightEnergy)
	}
	if len(c.Views) == 0 {
		return fmt.Errorf("config: at least one render view is required")
	}
	seen := make(map[string]bool, len(c.Views))
	for _, v := range c.Views {
		if v.Name == "" {
			return fmt.Errorf("config: view names must not be empty")
		}
		if seen[v.Name] {
			return fmt.Errorf("config: duplicate view name %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}
