package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"vpctl/pkg/vpmobil"

	"github.com/spf13/cobra"
)

var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Dump the plan feed",
	Long: `Print the decoded feed as JSON, or the original XML with --xml.
With --save the XML is also stored as PlanKl<YYYYMMDD>.xml in the given
directory, which --dir can read back later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asXML, _ := cmd.Flags().GetBool("xml")
		saveDir, _ := cmd.Flags().GetString("save")

		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		doc, err := client.Document(ctx)
		if err != nil {
			return err
		}

		if saveDir != "" {
			path, err := vpmobil.SaveFeed(saveDir, client.Date(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved feed to %s\n", path)
		}

		if asXML {
			_, err = os.Stdout.Write(doc)
			return err
		}

		feed, err := client.RawFeed(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(feed)
	},
}

func init() {
	rootCmd.AddCommand(rawCmd)

	rawCmd.Flags().Bool("xml", false, "Print the XML document instead of JSON")
	rawCmd.Flags().String("save", "", "Also save the XML document to this directory")
}
