package cli

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/spf13/cobra"

	"github.com/tsawler/geoform"
	"github.com/tsawler/geoform/forms"
	"github.com/tsawler/geoform/kml"
)

var (
	inspectPlacemark int
	inspectMarkdown  bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Show document, placemark, and asset details for a KMZ/KML file",
	Long: `Inspect summarizes the input: the KML document entry, the number of
placemarks per form, and any embedded assets such as photos.

With --placemark N it prints the extracted record for one placemark
instead; add --markdown to render its description balloon as markdown.

Example:
  geoform inspect survey.kmz
  geoform inspect survey.kmz --placemark 3 --markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVar(&inspectPlacemark, "placemark", 0, "show one placemark by 1-based index")
	inspectCmd.Flags().BoolVar(&inspectMarkdown, "markdown", false, "render the placemark description as markdown (with --placemark)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ext := geoform.Open(args[0])
	defer ext.Close()

	docName, err := ext.DocumentName()
	if err != nil {
		return err
	}

	assets, err := ext.Assets()
	if err != nil {
		return err
	}

	placemarks, warnings, err := ext.Placemarks()
	if err != nil {
		return err
	}
	reportWarnings(warnings)

	if inspectPlacemark > 0 {
		if inspectPlacemark > len(placemarks) {
			return fmt.Errorf("placemark %d out of range 1-%d", inspectPlacemark, len(placemarks))
		}
		return printPlacemark(placemarks[inspectPlacemark-1])
	}

	if docName != "" {
		fmt.Printf("document: %s\n", docName)
	}
	fmt.Printf("placemarks: %d\n", len(placemarks))

	records := make([]forms.Record, 0, len(placemarks))
	for _, p := range placemarks {
		records = append(records, forms.NewRecord(p))
	}
	for _, g := range forms.GroupRecords(records) {
		fmt.Printf("  %s: %d\n", g.Label, len(g.Records))
	}

	if len(assets) > 0 {
		fmt.Printf("assets: %d\n", len(assets))
		for _, a := range assets {
			if a.Width > 0 {
				fmt.Printf("  %s (%s, %d bytes, %dx%d)\n", a.Name, a.ContentType, a.Size, a.Width, a.Height)
			} else {
				fmt.Printf("  %s (%s, %d bytes)\n", a.Name, a.ContentType, a.Size)
			}
		}
	}
	return nil
}

// printPlacemark renders one extracted record.
func printPlacemark(p kml.Placemark) error {
	r := forms.NewRecord(p)

	fmt.Printf("name: %s\n", r.Name)
	fmt.Printf("form: %s\n", r.Form)
	fmt.Printf("longitude: %s\n", r.Longitude)
	fmt.Printf("latitude: %s\n", r.Latitude)
	fmt.Printf("altitude: %s\n", r.Altitude)
	for _, k := range r.Extra.Keys() {
		fmt.Printf("%s: %s\n", k, r.Extra.Get(k))
	}

	if inspectMarkdown && p.Description != "" {
		fmt.Println()
		fmt.Println(renderMarkdown(p.Description))
	}
	return nil
}

// renderMarkdown converts description HTML to markdown, falling back to
// the raw text when conversion fails or produces nothing.
func renderMarkdown(html string) string {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(html)
	if err != nil || strings.TrimSpace(md) == "" {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(md)
}
