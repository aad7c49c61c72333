// Command rocketcad draws fins, fin guides and rail guides to STL and
// imports fin sets from OpenRocket designs.
package main

import (
	"os"

	"github.com/rocketcad/sdf/cmd/rocketcad/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
