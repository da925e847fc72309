package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tsawler/geoform"
)

// formsCmd represents the forms command
var formsCmd = &cobra.Command{
	Use:   "forms <input>",
	Short: "List the form groups in a KMZ/KML file",
	Long: `Forms lists every form label found in the input along with the number
of records it holds, sorted by label. Placemarks without a form heading
are reported under the ` + "`__NO_FORM__`" + ` label.

Example:
  geoform forms survey.kmz`,
	Args: cobra.ExactArgs(1),
	RunE: runForms,
}

func init() {
	rootCmd.AddCommand(formsCmd)
}

func runForms(cmd *cobra.Command, args []string) error {
	groups, warnings, err := geoform.Open(args[0]).Groups()
	if err != nil {
		return err
	}
	reportWarnings(warnings)

	sort.Slice(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })
	for _, g := range groups {
		fmt.Printf("%s\t%d\n", g.Label, len(g.Records))
	}
	return nil
}
