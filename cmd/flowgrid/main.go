// Command flowgrid drives a 2D staggered-grid smoke simulation from a
// TOML scene configuration and writes a PNG frame sequence, grounded in
// inmaputil/cmd.go's cobra command-tree construction and
// original_source/src/main.rs's run(cli) loop driving compute_step then
// save_plots.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/flowgrid/flowgrid"
	"github.com/flowgrid/flowgrid/config"
	"github.com/flowgrid/flowgrid/render"
	"github.com/flowgrid/flowgrid/scene"
	"github.com/flowgrid/flowgrid/telemetry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowgrid",
		Short: "A 2D staggered-grid Eulerian smoke simulator.",
		Long: `flowgrid simulates a passive smoke scalar advecting through an
incompressible velocity field around static obstacles, using a
Gauss-Seidel/SOR projection and semi-Lagrangian advection on a MAC grid.`,
	}
	root.PersistentFlags().String("log-level", "info", "logging verbosity: debug, info, warn, error")
	root.AddCommand(newRunCmd())
	return root
}

func execModeFromString(s string) (flowgrid.ExecMode, error) {
	switch s {
	case "single":
		return flowgrid.Single, nil
	case "parallel":
		return flowgrid.Parallel, nil
	case "parallel-unsafe":
		return flowgrid.ParallelUnsafe, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: want single, parallel, or parallel-unsafe", s)
	}
}

func buildLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(lvl)
	return log, nil
}

func newRunCmd() *cobra.Command {
	var configFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and write a PNG frame sequence.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				loaded, err := config.ReadFile(configFile)
				if err != nil {
					return err
				}
				cfg = *loaded
			}
			cfg = config.FromViper(cmd.Flags(), v, cfg)

			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				level, _ = cmd.Root().PersistentFlags().GetString("log-level")
			}
			log, err := buildLogger(level)
			if err != nil {
				return err
			}

			return runSimulation(cmd.Context(), log, cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a TOML scene configuration file")
	if err := config.RegisterFlags(cmd.Flags(), v, config.Default()); err != nil {
		panic(err)
	}
	return cmd
}

func buildScene(cfg config.Config, dim flowgrid.Dim) scene.Scene {
	switch cfg.Scene {
	case "smoke-bar":
		third := dim.Y / 3
		return scene.Scene{
			Name: "smoke-bar",
			Manipulators: []flowgrid.Manipulator{
				scene.Inflow(r2.Vec{X: 2, Y: 0}, third, dim.Y-third),
				scene.SmokeBar(third, dim.Y-third, 1.0),
			},
		}
	default:
		return scene.SmokeTunnel(dim, 3.0)
	}
}

func runSimulation(ctx context.Context, log *logrus.Logger, cfg config.Config) error {
	dim := flowgrid.Dim{X: cfg.DimX, Y: cfg.DimY}
	g, err := flowgrid.New(dim, cfg.CellWidth, log)
	if err != nil {
		return fmt.Errorf("constructing grid: %w", err)
	}

	mode, err := execModeFromString(cfg.Mode)
	if err != nil {
		return err
	}

	sc := buildScene(cfg, dim)
	stepper := flowgrid.NewTimeStepper(log, cfg.Density, r2.Vec{X: cfg.GravityX, Y: cfg.GravityY},
		cfg.Iterations, mode, []flowgrid.Object{flowgrid.NewGridObject(g)}, []flowgrid.Manipulator{sc.Compose()})

	fw, err := render.NewFrameWriter(cfg.OutputDir, log)
	if err != nil {
		return err
	}
	rec := telemetry.NewRecorder(64, log)

	for step := 0; step < cfg.Steps; step++ {
		if err := stepper.ComputeStep(ctx, cfg.Dt); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		snap := rec.Record(step, stepper.T, g)
		if _, _, err := fw.WriteFrame(step, g, render.SmokeColorFunc(g, snap.Stats)); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if step%30 == 0 {
			log.Info(rec.Report())
		}
	}
	log.Info(rec.Report())
	return nil
}
