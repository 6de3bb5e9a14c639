// Package render consumes the core package's (index) -> color export and
// rasterizes it to PNG frames, grounded in visualization.rs's save_plots
// (a stats-normalized color lookup written out as an image) and in the
// teacher's split between a computation CLI and a separate presentation
// path (webserver.go, here replaced by a static file writer per the
// Non-goal against a served wire protocol at the core boundary).
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/flowgrid/flowgrid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ColorFunc maps a grid index to the color its cell should render as.
type ColorFunc func(idx flowgrid.Index) color.RGBA

func lerp(a, b byte, t float64) byte {
	return byte(float64(a) + t*(float64(b)-float64(a)))
}

func normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	t := (v - min) / (max - min)
	return math.Max(0, math.Min(1, t))
}

// SmokeColorFunc colors each cell by its normalized smoke density, solid
// cells a fixed obstacle gray, the simplest reading of visualization.rs's
// normalized-scalar color mapping.
func SmokeColorFunc(g *flowgrid.Grid, stats flowgrid.Stats) ColorFunc {
	obstacle := color.RGBA{R: 96, G: 96, B: 96, A: 255}
	bg := color.RGBA{R: 8, G: 8, B: 24, A: 255}
	smokeColor := color.RGBA{R: 235, G: 235, B: 245, A: 255}

	return func(idx flowgrid.Index) color.RGBA {
		c, err := g.Cell(idx)
		if err != nil {
			return bg
		}
		if c.Mode == flowgrid.Solid {
			return obstacle
		}
		t := normalize(c.Smoke.Front, stats.MinSmoke, stats.MaxSmoke)
		return color.RGBA{
			R: lerp(bg.R, smokeColor.R, t),
			G: lerp(bg.G, smokeColor.G, t),
			B: lerp(bg.B, smokeColor.B, t),
			A: 255,
		}
	}
}

// PressureColorFunc colors each cell by its normalized pressure on a
// blue(low)-to-red(high) scale, solid cells a fixed obstacle gray.
func PressureColorFunc(g *flowgrid.Grid, stats flowgrid.Stats) ColorFunc {
	obstacle := color.RGBA{R: 96, G: 96, B: 96, A: 255}
	low := color.RGBA{R: 30, G: 60, B: 220, A: 255}
	high := color.RGBA{R: 220, G: 60, B: 30, A: 255}

	return func(idx flowgrid.Index) color.RGBA {
		c, err := g.Cell(idx)
		if err != nil {
			return low
		}
		if c.Mode == flowgrid.Solid {
			return obstacle
		}
		t := normalize(c.Pressure, stats.MinPressure, stats.MaxPressure)
		return color.RGBA{
			R: lerp(low.R, high.R, t),
			G: lerp(low.G, high.G, t),
			B: lerp(low.B, high.B, t),
			A: 255,
		}
	}
}

// WriteFrame rasterizes g's interior cells through cf into a PNG written
// to w.
func WriteFrame(w io.Writer, g *flowgrid.Grid, cf ColorFunc) error {
	img := image.NewRGBA(image.Rect(0, 0, g.Dim.X, g.Dim.Y))
	for _, idx := range g.IterIndexInside() {
		px := idx.X - 1
		py := g.Dim.Y - idx.Y
		img.SetRGBA(px, py, cf(idx))
	}
	return png.Encode(w, img)
}

// FrameWriter writes numbered PNG frames to a directory, tagging each
// with a uuid so external tooling can correlate a sequence of emitted
// frames, mirroring the teacher's habit of keying records by a stable ID
// (Cell.Row) rather than a recomputed offset.
type FrameWriter struct {
	OutputDir string
	log       logrus.FieldLogger
}

// NewFrameWriter returns a FrameWriter rooted at dir, creating it if
// necessary.
func NewFrameWriter(dir string, log logrus.FieldLogger) (*FrameWriter, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: creating output directory %q: %w", dir, err)
	}
	return &FrameWriter{OutputDir: dir, log: log}, nil
}

// WriteFrame writes one numbered PNG frame and returns its frame ID and
// file path.
func (fw *FrameWriter) WriteFrame(step int, g *flowgrid.Grid, cf ColorFunc) (uuid.UUID, string, error) {
	id := uuid.New()
	path := filepath.Join(fw.OutputDir, fmt.Sprintf("frame-%06d.png", step))

	f, err := os.Create(path)
	if err != nil {
		return id, "", fmt.Errorf("render: creating frame file %q: %w", path, err)
	}
	defer f.Close()

	if err := WriteFrame(f, g, cf); err != nil {
		return id, "", fmt.Errorf("render: encoding frame %d: %w", step, err)
	}

	fw.log.WithFields(logrus.Fields{"step": step, "frameID": id, "path": path}).Debug("wrote frame")
	return id, path, nil
}
