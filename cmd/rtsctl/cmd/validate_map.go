package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
)

var validateMapCmd = &cobra.Command{
	Use:   "validate-map",
	Short: "Report buildability/walkability statistics for a map file",
	Long: `validate-map loads a rectangular per-tile buildability map, reports
how many tiles are walkable, buildable, and both, and counts the
anchors where a 3x3 mine footprint fits; it fails when there is no
such anchor. It does not place mines or mirrored start positions and
does not report individual tiles.`,
	RunE: runValidateMapCmd,
}

var mapFile string

func init() {
	validateMapCmd.Flags().StringVar(&mapFile, "file", "", "path to the map file (required)")
	validateMapCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateMapCmd)
}

func runValidateMapCmd(cmd *cobra.Command, args []string) error {
	g, err := grid.LoadMapFile(mapFile)
	if err != nil {
		return err
	}

	total := g.Width * g.Height
	walkable, buildable, open := 0, 0, 0
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			w, b := g.IsWalkable(x, y), g.IsBuildable(x, y)
			if w {
				walkable++
			}
			if b {
				buildable++
			}
			if w && b {
				open++
			}
		}
	}

	fmt.Printf("map size: %dx%d (%d tiles)\n", g.Width, g.Height, total)
	fmt.Printf("walkable: %d (%.1f%%)\n", walkable, 100*float64(walkable)/float64(total))
	fmt.Printf("buildable: %d (%.1f%%)\n", buildable, 100*float64(buildable)/float64(total))
	fmt.Printf("open (walkable and buildable): %d (%.1f%%)\n", open, 100*float64(open)/float64(total))

	// Mine footprints are 3x3; a map with no 3x3 buildable region
	// anywhere can never host a starting mine, which every round
	// requires at least one of.
	mineDesc := catalog.New(1).Descriptor(catalog.Mine)
	sites := 0
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			if g.AreaBuildable(grid.Pos{X: x, Y: y}, mineDesc.Width, mineDesc.Height, nil) {
				sites++
			}
		}
	}
	fmt.Printf("candidate mine sites (3x3 buildable): %d\n", sites)
	if sites == 0 {
		return fmt.Errorf("rtsctl: map has no buildable 3x3 region; no mine can be placed")
	}
	return nil
}
