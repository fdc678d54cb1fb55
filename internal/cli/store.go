package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/ingest"
	bio "github.com/matzehuels/boreholelog/pkg/io"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

type storeOpts struct {
	uri        string
	database   string
	collection string
}

func (o *storeOpts) open(ctx context.Context) (*ingest.MongoStore, error) {
	return ingest.OpenMongo(ctx, o.uri, o.database, o.collection)
}

// storeCommand creates the store command for the MongoDB borehole store.
func (c *CLI) storeCommand() *cobra.Command {
	var opts storeOpts
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage boreholes kept in MongoDB",
	}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.uri, "mongo", envOr("BOREHOLELOG_MONGO_URI", "mongodb://localhost:27017"), "MongoDB URI")
	f.StringVar(&opts.database, "mongo-db", ingest.DefaultMongoDatabase, "MongoDB database")
	f.StringVar(&opts.collection, "mongo-collection", ingest.DefaultMongoCollection, "MongoDB collection")

	cmd.AddCommand(c.storePushCommand(&opts))
	cmd.AddCommand(c.storeListCommand(&opts))
	return cmd
}

func (c *CLI) storePushCommand(opts *storeOpts) *cobra.Command {
	var headerPath string
	cmd := &cobra.Command{
		Use:   "push <input>",
		Short: "Upload every borehole in an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			boreholes, err := ingest.LoadFile(args[0])
			if err != nil {
				return err
			}
			var meta header.Metadata
			if headerPath != "" {
				if meta, err = header.Load(headerPath); err != nil {
					return err
				}
			}
			store, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Uploading %d boreholes...", len(boreholes)))
			spinner.Start()
			for _, b := range boreholes {
				if err := store.Put(ctx, bio.Document{Borehole: b, Header: meta}); err != nil {
					spinner.StopWithError(errors.UserMessage(err))
					return err
				}
			}
			spinner.StopWithSuccess(fmt.Sprintf("Stored %d boreholes from %s", len(boreholes), filepath.Base(args[0])))
			for _, b := range boreholes {
				printDetail("%s (%d intervals)", b.ID, len(b.Intervals))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&headerPath, "header", "", "YAML header stored with every borehole")
	return cmd
}

func (c *CLI) storeListCommand(opts *storeOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored borehole IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close(context.Background())
			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

// convertCommand creates the convert command, which writes one borehole
// as a JSON document.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		opts   renderOpts
		output string
	)
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert one borehole to the JSON document format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pipeline.Ingest(cmd.Context(), opts.pipelineOptions(args[0]))
			if err != nil {
				return err
			}
			if output == "" {
				output = doc.Borehole.ID + ".json"
			}
			if err := bio.ExportJSON(doc, output); err != nil {
				return err
			}
			printSuccess("Wrote %s", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.id, "id", "", "borehole ID to select from a multi-borehole input")
	cmd.Flags().StringVar(&opts.header, "header", "", "YAML file with header metadata")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: {id}.json)")
	return cmd
}
