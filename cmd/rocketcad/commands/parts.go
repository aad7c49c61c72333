package commands

import (
	"github.com/rocketcad/sdf/rocket"
	"github.com/rocketcad/sdf/rocket/fin"
	"github.com/rocketcad/sdf/rocket/guide"
	"github.com/spf13/cobra"
)

func finCmd() *cobra.Command {
	var (
		out      string
		set      bool
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "fin [params.yaml]",
		Short: "Draw a trapezoidal fin, or a fin set with --set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := fin.DefaultFin()
			if err := loadParams(argPath(args), &p); err != nil {
				return err
			}
			if defaults {
				return printParams(p)
			}
			if set {
				return draw("fin set", fin.SetDrawer(p), out)
			}
			return draw("fin", p, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "fin.stl", "STL output file")
	cmd.Flags().BoolVar(&set, "set", false, "replicate FinCount fins about the body axis")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the parameters as YAML and exit")
	return cmd
}

func finGuideCmd() *cobra.Command {
	var (
		out      string
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "finguide [params.yaml]",
		Short: "Draw a fin alignment guide",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := guide.DefaultFinGuide()
			if err := loadParams(argPath(args), &p); err != nil {
				return err
			}
			if defaults {
				return printParams(p)
			}
			return draw("fin guide", p, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "finguide.stl", "STL output file")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the parameters as YAML and exit")
	return cmd
}

func railGuideCmd() *cobra.Command {
	var (
		out      string
		tube     float64
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "railguide [params.yaml]",
		Short: "Draw a launch rail guide",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := guide.DefaultRailGuide()
			if err := loadParams(argPath(args), &p); err != nil {
				return err
			}
			if tube != 0 {
				if tube < 0 {
					return rocket.Invalid("tube", "must be greater than zero, got %g", tube)
				}
				p = p.OnTube(tube)
			}
			if defaults {
				return printParams(p)
			}
			return draw("rail guide", p, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "railguide.stl", "STL output file")
	cmd.Flags().Float64Var(&tube, "tube", 0, "body tube diameter for an automatic conformal base")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the parameters as YAML and exit")
	return cmd
}
