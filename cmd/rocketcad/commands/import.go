package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/rocketcad/sdf/rocket/fin"
	"github.com/rocketcad/sdf/rocket/openrocket"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func importCmd() *cobra.Command {
	var (
		dir  string
		mesh bool
	)
	cmd := &cobra.Command{
		Use:   "import design.ork",
		Short: "List an OpenRocket design and export its trapezoidal fin sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openrocket.Open(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			doc.Rocket.Walk(func(c *openrocket.Component, depth int) error {
				fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n", strings.Repeat("  ", depth), c.Type, c.Name, c.Location, c.ID)
				return nil
			})
			if err := tw.Flush(); err != nil {
				return err
			}
			if dir == "" {
				return nil
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for i, c := range doc.Find("trapezoidfinset") {
				fs, err := openrocket.AsTrapezoidFinSet(c)
				if err != nil {
					return err
				}
				p := fs.FinParams()
				base := filepath.Join(dir, fmt.Sprintf("%02d-%s", i, slug(fs.Name)))
				if err := writeParams(base+".yaml", p); err != nil {
					return err
				}
				log.Info().Str("fins", fs.Name).Str("file", base+".yaml").Msg("fin set exported")
				if mesh {
					if err := draw(fs.Name, fin.SetDrawer(p), base+".stl"); err != nil {
						return fmt.Errorf("fin set %q: %w", fs.Name, err)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", "", "directory for fin set parameter files")
	cmd.Flags().BoolVar(&mesh, "stl", false, "also draw every fin set to STL")
	return cmd
}

func writeParams(path string, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// slug makes a component name usable as a file name.
func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, strings.TrimSpace(name))
	s = strings.Trim(s, "-")
	if s == "" {
		return "fins"
	}
	return s
}
