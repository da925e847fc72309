package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/geoform"
	"github.com/tsawler/geoform/export"
	"github.com/tsawler/geoform/forms"
)

var (
	convertForm     string
	convertAll      bool
	convertOutput   string
	convertOutDir   string
	convertFormat   string
	selectIndex     int
	includeHeadless bool
	stripMarkup     bool
	nonInteractive  bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Extract form records from a KMZ/KML file and write CSV or TSV",
	Long: `Convert reads a KMZ archive or KML document, groups placemark records
by form, and writes delimited text files.

Without --form or --all, an interactive prompt offers the available
forms. With --non-interactive, pass --form or --select instead; an
invalid selection fails before any output is written.

Example:
  geoform convert survey.kmz
  geoform convert survey.kmz --all --output-dir out
  geoform convert survey.kmz --form "Tree Survey" --output trees.csv
  geoform convert survey.kmz --non-interactive --select 2`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertForm, "form", "", "form label to export (skips the prompt)")
	convertCmd.Flags().BoolVar(&convertAll, "all", false, "export every form group")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file for a single form (default: derived from the label)")
	convertCmd.Flags().StringVar(&convertOutDir, "output-dir", ".", "directory for exported files")
	convertCmd.Flags().StringVar(&convertFormat, "format", "csv", "export format (csv or tsv)")
	convertCmd.Flags().IntVar(&selectIndex, "select", 0, "1-based index into the sorted form list")
	convertCmd.Flags().BoolVar(&includeHeadless, "include-headless", false, "include placemarks without a form heading")
	convertCmd.Flags().BoolVar(&stripMarkup, "strip-markup", false, "strip residual HTML markup from cell values")
	convertCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "fail instead of prompting when no form is specified")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	applyConfigDefaults(cmd)

	format, err := export.ParseFormat(convertFormat)
	if err != nil {
		return err
	}

	config := export.DefaultExportConfig()
	if format == export.ExportFormatTSV {
		config = export.TSVExportConfig()
	}
	config.StripMarkup = stripMarkup

	if verbose {
		fmt.Fprintf(os.Stderr, "Reading: %s\n", input)
		fmt.Fprintf(os.Stderr, "Format: %s\n", config.Format)
	}

	ext := geoform.Open(input)
	if !includeHeadless {
		ext = ext.DropHeadless()
	}

	groups, warnings, err := ext.Groups()
	if err != nil {
		return err
	}
	reportWarnings(warnings)

	if len(groups) == 0 {
		return fmt.Errorf("no form records found in %s", input)
	}

	if convertAll {
		if err := os.MkdirAll(convertOutDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		paths, err := export.NewExporterWithConfig(config).ExportAll(groups, convertOutDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	label := convertForm
	if label == "" {
		labels := forms.Labels(groups)
		sort.Strings(labels)
		label, err = pickLabel(labels)
		if err != nil {
			return err
		}
	}

	g, ok := forms.Find(groups, label)
	if !ok {
		return fmt.Errorf("no form group %q in %s", label, input)
	}

	outPath := convertOutput
	if outPath == "" {
		if err := os.MkdirAll(convertOutDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		outPath = filepath.Join(convertOutDir, export.DefaultFilename(label, config.Format))
	}

	if err := export.NewExporterWithConfig(config).ExportToFile(g, outPath); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Wrote %d records\n", len(g.Records))
	}
	fmt.Println(outPath)
	return nil
}

// pickLabel resolves the form label when --form was not given.
func pickLabel(labels []string) (string, error) {
	if selectIndex > 0 {
		return selectByIndex(labels, selectIndex)
	}
	if nonInteractive {
		return "", fmt.Errorf("%w: --form or --select required with --non-interactive", ErrSelection)
	}
	return chooseForm(labels, surveyPrompter{})
}

// applyConfigDefaults fills flags the user did not set from the viper
// configuration (config file or GEOFORM_* environment).
func applyConfigDefaults(cmd *cobra.Command) {
	if !cmd.Flags().Changed("format") && viper.IsSet("format") {
		convertFormat = viper.GetString("format")
	}
	if !cmd.Flags().Changed("output-dir") && viper.IsSet("output_dir") {
		convertOutDir = viper.GetString("output_dir")
	}
	if !cmd.Flags().Changed("include-headless") && viper.IsSet("include_headless") {
		includeHeadless = viper.GetBool("include_headless")
	}
	if !cmd.Flags().Changed("strip-markup") && viper.IsSet("strip_markup") {
		stripMarkup = viper.GetBool("strip_markup")
	}
}
