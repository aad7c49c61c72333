package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rocketcad/sdf/rocket/fin"
	"github.com/rocketcad/sdf/rocket/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

func profileCmd() *cobra.Command {
	var (
		out   string
		scale float64
	)
	cmd := &cobra.Command{
		Use:   "profile [params.yaml]",
		Short: "Export the root and tip sections of a fin",
		Long: "Export the root and tip sections of a fin. The format follows the output\n" +
			"extension: .dxf and .svg are drawings, .png and .pdf are plots.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := fin.DefaultFin()
			if err := loadParams(argPath(args), &p); err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			root, err := p.RootProfile()
			if err != nil {
				return err
			}
			tip, err := p.TipProfile()
			if err != nil {
				return err
			}
			layers := []profile.Layer{profile.NewLayer("root", root), profile.NewLayer("tip", tip)}
			log.Debug().Float64("root_area", root.Area()).Float64("tip_area", tip.Area()).Msg("sections built")

			switch strings.ToLower(filepath.Ext(out)) {
			case ".dxf":
				err = profile.WriteDXF(out, layers...)
			case ".svg":
				var f *os.File
				if f, err = os.Create(out); err != nil {
					return err
				}
				err = profile.WriteSVG(f, scale, layers...)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			default:
				err = profile.Plot(out, 16*vg.Centimeter, layers...)
			}
			if err != nil {
				return err
			}
			log.Info().Str("file", out).Msg("sections written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "profile.dxf", "output file")
	cmd.Flags().Float64Var(&scale, "scale", 4, "SVG pixels per millimetre")
	return cmd
}
