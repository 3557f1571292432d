package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eunmann/tifbench/pkg/logging"
	"github.com/eunmann/tifbench/pkg/sample"
)

func newSampleCmd() *cobra.Command {
	opts := sample.DefaultOptions()
	uncompressed := false

	cmd := &cobra.Command{
		Use:   "sample <out.tif>",
		Short: "Write the generated sample slice used when no --sample is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			opts.Compress = !uncompressed
			if err := sample.Write(args[0], opts); err != nil {
				return err
			}
			logging.FileCreated(*logging.L(), "sample", time.Since(start)).
				Str("path", args[0]).
				Int("width", opts.Width).
				Int("height", opts.Height).
				Log("sample written")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&opts.Width, "width", opts.Width, "image width in pixels")
	fs.IntVar(&opts.Height, "height", opts.Height, "image height in pixels")
	fs.BoolVar(&uncompressed, "uncompressed", false, "store pixels without Deflate compression")
	return cmd
}
