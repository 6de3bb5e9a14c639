// Package config loads a flowgrid run configuration from a TOML file and
// binds command-line flag overrides on top of it (environment variables are
// only expanded inside OutputDir; they are not read as overrides), mirroring
// inmap/cmd/config.go's ReadConfigFile plus inmaputil/cmd.go's Cfg/viper
// flag-binding pattern.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every parameter needed to construct and run a flowgrid
// simulation.
type Config struct {
	// DimX, DimY are the interior grid dimensions in cells.
	DimX int
	DimY int

	// CellWidth is the physical width of one cell.
	CellWidth float64

	// Density is the fluid density used by the incompressibility
	// projection.
	Density float64

	// GravityX, GravityY make up the gravitational acceleration vector.
	GravityX float64
	GravityY float64

	// Iterations is the fixed SOR iteration count per step.
	Iterations int

	// Mode selects the projection's concurrency strategy: "single",
	// "parallel", or "parallel-unsafe".
	Mode string

	// Dt is the fixed simulation timestep.
	Dt float64

	// Steps is the number of steps to run.
	Steps int

	// Scene names the scene-package setup function to apply before the
	// run starts (e.g. "smoke-bar").
	Scene string

	// OutputDir is the directory PNG frames are written to. Can include
	// environment variables.
	OutputDir string
}

// Default returns the baseline configuration used when no file is
// supplied.
func Default() Config {
	return Config{
		DimX: 64, DimY: 64,
		CellWidth:  1,
		Density:    1,
		GravityX:   0,
		GravityY:   -9.8,
		Iterations: 40,
		Mode:       "single",
		Dt:         1.0 / 60.0,
		Steps:      300,
		Scene:      "smoke-bar",
		OutputDir:  "./out",
	}
}

// ReadFile reads and decodes a TOML configuration file, expanding
// environment variables in OutputDir the way ReadConfigFile expands
// InMAPData/OutputFile.
func ReadFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and try again: %w", filename, err)
	}
	defer file.Close()

	cfg := Default()
	if err := decode(file, &cfg); err != nil {
		return nil, err
	}
	cfg.OutputDir = os.ExpandEnv(cfg.OutputDir)
	return &cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	b, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return fmt.Errorf("problem reading configuration file: %w", err)
	}
	if _, err := toml.Decode(string(b), cfg); err != nil {
		return fmt.Errorf("there has been an error parsing the configuration file: %w", err)
	}
	return nil
}

// RegisterFlags registers every Config field as a pflag override and binds
// them into v, mirroring inmaputil's InitializeConfig option table built
// on top of a *viper.Viper.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper, cfg Config) error {
	fs.Int("dim-x", cfg.DimX, "interior grid width in cells")
	fs.Int("dim-y", cfg.DimY, "interior grid height in cells")
	fs.Float64("cell-width", cfg.CellWidth, "physical width of one cell")
	fs.Float64("density", cfg.Density, "fluid density")
	fs.Float64("gravity-x", cfg.GravityX, "gravitational acceleration, x component")
	fs.Float64("gravity-y", cfg.GravityY, "gravitational acceleration, y component")
	fs.Int("iterations", cfg.Iterations, "SOR iterations per step")
	fs.String("mode", cfg.Mode, "projection mode: single, parallel, parallel-unsafe")
	fs.Float64("dt", cfg.Dt, "fixed simulation timestep")
	fs.Int("steps", cfg.Steps, "number of steps to run")
	fs.String("scene", cfg.Scene, "scene setup to apply before the run")
	fs.String("output", cfg.OutputDir, "directory PNG frames are written to")

	return v.BindPFlags(fs)
}

// FromViper builds a Config from cfg (the baseline, or whatever ReadFile
// loaded), overlaying only the flags the caller actually set on fs. A
// pflag.FlagSet always carries a value for every registered flag whether
// or not the user touched it, so blindly reading every value back out of
// v would silently replace a loaded file's settings with the flags'
// construction-time defaults; fs.Changed guards each field so an
// untouched flag leaves cfg's existing value alone.
func FromViper(fs *pflag.FlagSet, v *viper.Viper, cfg Config) Config {
	if fs.Changed("dim-x") {
		cfg.DimX = v.GetInt("dim-x")
	}
	if fs.Changed("dim-y") {
		cfg.DimY = v.GetInt("dim-y")
	}
	if fs.Changed("cell-width") {
		cfg.CellWidth = v.GetFloat64("cell-width")
	}
	if fs.Changed("density") {
		cfg.Density = v.GetFloat64("density")
	}
	if fs.Changed("gravity-x") {
		cfg.GravityX = v.GetFloat64("gravity-x")
	}
	if fs.Changed("gravity-y") {
		cfg.GravityY = v.GetFloat64("gravity-y")
	}
	if fs.Changed("iterations") {
		cfg.Iterations = v.GetInt("iterations")
	}
	if fs.Changed("mode") {
		cfg.Mode = v.GetString("mode")
	}
	if fs.Changed("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if fs.Changed("steps") {
		cfg.Steps = v.GetInt("steps")
	}
	if fs.Changed("scene") {
		cfg.Scene = v.GetString("scene")
	}
	if fs.Changed("output") {
		cfg.OutputDir = os.ExpandEnv(v.GetString("output"))
	}
	return cfg
}
