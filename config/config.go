// Package config holds the skyboxer settings that can come from a TOML file.
package config

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"skyboxer/cubemap"
)

type Tonemap struct {
	Gamma float32 `toml:"gamma"`
	Scale float32 `toml:"scale"`
}

type Gradient struct {
	Zenith  [3]float32 `toml:"zenith"`
	Horizon [3]float32 `toml:"horizon"`
	Ground  [3]float32 `toml:"ground"`
	Pitch   float32    `toml:"pitch"`
	Yaw     float32    `toml:"yaw"`
}

type Config struct {
	// face resolution, 0 picks one from the source
	Resolution  int            `toml:"resolution"`
	Name        string         `toml:"name"`
	Out         string         `toml:"out"`
	Format      cubemap.Format `toml:"format"`
	Compression string         `toml:"compression"`
	Parallel    int            `toml:"parallel"`
	Independent bool           `toml:"independent"`
	Material    bool           `toml:"material"`
	Tonemap     Tonemap        `toml:"tonemap"`
	Gradient    Gradient       `toml:"gradient"`
}

func Default() Config {
	return Config{
		Resolution:  0,
		Name:        "New Skybox",
		Format:      cubemap.FormatPNG,
		Compression: "default",
		Parallel:    1,
		Material:    true,
		Tonemap: Tonemap{
			Gamma: 2.2,
			Scale: 1.0,
		},
		Gradient: Gradient{
			Zenith:  [3]float32{0.15, 0.35, 0.75},
			Horizon: [3]float32{0.85, 0.9, 0.95},
			Ground:  [3]float32{0.2, 0.18, 0.15},
		},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Normalize clamps the resolution into the supported range and rejects values
// that cannot be clamped.
func (c *Config) Normalize() error {
	if c.Resolution != 0 {
		c.Resolution = cubemap.ClampSize(c.Resolution)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("skybox name is empty")
	}
	if strings.ContainsAny(c.Name, `/\`) || c.Name == "." || c.Name == ".." {
		return fmt.Errorf("skybox name %q must be a plain directory name", c.Name)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if c.Tonemap.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive, got %v", c.Tonemap.Gamma)
	}
	if _, err := c.PNGCompression(); err != nil {
		return err
	}
	return nil
}

func (c *Config) PNGCompression() (png.CompressionLevel, error) {
	switch strings.ToLower(c.Compression) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	}
	return 0, fmt.Errorf("%s is not a valid compression; default, none, fast or best", c.Compression)
}

// ExportOptions translates the settings into exporter options.
func (c *Config) ExportOptions() []cubemap.ExportOption {
	level, _ := c.PNGCompression()
	opts := []cubemap.ExportOption{
		cubemap.WithFormat(c.Format),
		cubemap.WithPNGCompression(level),
		cubemap.WithParallelism(c.Parallel),
	}
	if c.Independent {
		opts = append(opts, cubemap.WithIndependentFaces())
	}
	return opts
}
