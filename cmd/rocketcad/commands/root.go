package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/render"
	"github.com/rocketcad/sdf/rocket"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	verbose  bool
	cells    int
	threads  int
	preview  bool
	simplify float64
	log      zerolog.Logger
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "rocketcad",
		Short:         "Model rocket part generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).With().Timestamp().Logger()
			rocket.SetLogger(&log)
			if cells < 2 {
				return rocket.Invalid("cells", "must be at least 2, got %d", cells)
			}
			if !(simplify > 0 && simplify <= 1) {
				return rocket.Invalid("simplify", "must be in (0, 1], got %g", simplify)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log intermediate geometry")
	root.PersistentFlags().IntVar(&cells, "cells", 200, "mesh cells along the longest side")
	root.PersistentFlags().IntVar(&threads, "threads", 1, "meshing goroutines")
	root.PersistentFlags().BoolVar(&preview, "png", false, "write a PNG preview next to each STL")
	root.PersistentFlags().Float64Var(&simplify, "simplify", 1, "fraction of triangles kept in the STL")

	root.AddCommand(finCmd(), finGuideCmd(), railGuideCmd(), importCmd(), profileCmd())
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rocketcad:", err)
	}
	return err
}

// loadParams decodes the YAML file at path over the defaults held in dst.
// Unknown keys are rejected. An empty path keeps the defaults.
func loadParams(path string, dst interface{}) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// printParams writes v as YAML to stdout.
func printParams(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func argPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// draw executes d on a named feature and writes the solid to out.
func draw(name string, d rocket.Drawer, out string) error {
	f := rocket.NewFeature(name)
	if err := f.Execute(d); err != nil {
		return err
	}
	return writeMesh(f.Shape(), out)
}

// writeMesh renders s to an STL file, optionally simplified and previewed.
// SDFs are evaluated lazily, so a kernel panic raised while meshing is
// reported as rocket.ErrInvalidShape.
func writeMesh(s sdf.SDF3, out string) (err error) {
	defer func() {
		if a := recover(); a != nil {
			err = fmt.Errorf("mesh %s: %w: %v", out, rocket.ErrInvalidShape, a)
		}
	}()
	start := time.Now()
	r := render.NewOctreeRenderer(s, cells)
	r.SetConcurrency(threads)
	if err := render.CreateSTL(out, r); err != nil {
		return err
	}
	log.Info().Str("file", out).Dur("took", time.Since(start)).Msg("stl written")
	if simplify < 1 {
		n, err := render.SimplifySTL(out, out, simplify)
		if err != nil {
			return err
		}
		log.Info().Str("file", out).Int("triangles", n).Msg("stl simplified")
	}
	if preview {
		png := strings.TrimSuffix(out, filepath.Ext(out)) + ".png"
		if err := render.PreviewPNG(out, png, render.DefaultView()); err != nil {
			return err
		}
		log.Info().Str("file", png).Msg("preview written")
	}
	return nil
}
