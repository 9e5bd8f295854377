package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/widgetkit/internal/config"
	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/render"
	"github.com/vango-dev/widgetkit/pkg/snapshot"
)

func exportCmd() *cobra.Command {
	var (
		dir    string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "export <tree.json> <name>",
		Short: "Render a tree and store the snapshot",
		Long: `Render a tree and store the HTML as a named snapshot.

With --dir the snapshot is written under that directory. Otherwise it
is uploaded to the S3 bucket configured in widgetkit.json, using
AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY for credentials.

Examples:
  widgetkit export page.json home --dir=out
  widgetkit export page.json pages/home`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, where, err := snapshotStore(dir)
			if err != nil {
				return err
			}

			data, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			root, err := decodeTree(data)
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			if err := snapshot.Export(cmd.Context(), store, args[1], r, root); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "exported %s to %s", args[1], where)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Write snapshots to this directory instead of S3")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")

	return cmd
}

func snapshotStore(dir string) (snapshot.Store, string, error) {
	if dir != "" {
		store, err := snapshot.NewDiskStore(dir)
		if err != nil {
			return nil, "", err
		}
		return store, dir, nil
	}

	cfg, err := config.LoadFromDir(".")
	if err != nil {
		return nil, "", err
	}
	if !cfg.HasSnapshotBucket() {
		return nil, "", errors.New("W501").
			WithDetail("no snapshot bucket configured").
			WithSuggestion("Pass --dir or set snapshot.bucket in widgetkit.json")
	}
	client := snapshot.NewS3Client(snapshot.S3Config{
		Region:    cfg.Snapshot.Region,
		Endpoint:  cfg.Snapshot.Endpoint,
		PathStyle: cfg.Snapshot.PathStyle,
	})
	store := snapshot.NewS3Store(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)
	return store, "s3://" + cfg.Snapshot.Bucket + "/" + cfg.Snapshot.Prefix, nil
}
