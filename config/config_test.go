package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.DimX <= 0 || cfg.DimY <= 0 {
		t.Errorf("default dims should be positive, got %dx%d", cfg.DimX, cfg.DimY)
	}
	if cfg.Mode != "single" {
		t.Errorf("default mode = %q, want single", cfg.Mode)
	}
}

func TestDecodeOverridesFields(t *testing.T) {
	cfg := Default()
	toml := `
DimX = 128
DimY = 64
Mode = "parallel"
Scene = "wind-tunnel"
`
	if err := decode(strings.NewReader(toml), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.DimX != 128 || cfg.DimY != 64 {
		t.Errorf("dims = %dx%d, want 128x64", cfg.DimX, cfg.DimY)
	}
	if cfg.Mode != "parallel" {
		t.Errorf("Mode = %q, want parallel", cfg.Mode)
	}
	if cfg.Scene != "wind-tunnel" {
		t.Errorf("Scene = %q, want wind-tunnel", cfg.Scene)
	}
	if cfg.Density != Default().Density {
		t.Errorf("Density should keep its default when absent from the file, got %v", cfg.Density)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/flowgrid.toml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestRegisterFlagsBindsToViper(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	v := viper.New()
	if err := RegisterFlags(fs, v, Default()); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse([]string{"--mode=parallel-unsafe", "--steps=10"}); err != nil {
		t.Fatal(err)
	}
	cfg := FromViper(fs, v, Default())
	if cfg.Mode != "parallel-unsafe" {
		t.Errorf("Mode = %q, want parallel-unsafe", cfg.Mode)
	}
	if cfg.Steps != 10 {
		t.Errorf("Steps = %d, want 10", cfg.Steps)
	}
}

// TestFromViperPreservesFileValuesWithNoFlagsSet reproduces the realistic
// CLI flow: ReadFile loads a TOML file with non-default values, then
// FromViper overlays flags the user never touched. Those file values must
// survive untouched rather than being clobbered by the flags' registered
// (Default()) construction-time values.
func TestFromViperPreservesFileValuesWithNoFlagsSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowgrid.toml")
	toml := `
DimX = 200
DimY = 150
Density = 2.5
Mode = "parallel"
Scene = "wind-tunnel"
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	v := viper.New()
	if err := RegisterFlags(fs, v, Default()); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg := FromViper(fs, v, *loaded)
	if cfg.DimX != 200 || cfg.DimY != 150 {
		t.Errorf("dims = %dx%d, want 200x150 (file values clobbered by unset flag defaults)", cfg.DimX, cfg.DimY)
	}
	if cfg.Density != 2.5 {
		t.Errorf("Density = %v, want 2.5 (file value clobbered by unset flag default)", cfg.Density)
	}
	if cfg.Mode != "parallel" {
		t.Errorf("Mode = %q, want parallel (file value clobbered by unset flag default)", cfg.Mode)
	}
	if cfg.Scene != "wind-tunnel" {
		t.Errorf("Scene = %q, want wind-tunnel (file value clobbered by unset flag default)", cfg.Scene)
	}
}
