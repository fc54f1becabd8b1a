package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/drummonds/docstudio/client"
	"github.com/drummonds/docstudio/viewer"
)

var (
	serverURL string
	outDir    string
	export    bool
	collect   bool
	policy    string
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "pagedump [files...]",
	Short: "Render documents page by page through a docstudio server",
	Long: `Stage PDF, PNG or JPEG files with a docstudio server, render every page
and write the pages into the output directory. Several files get one
sub directory each.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runDump,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8000", "docstudio server URL")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "pages", "Output directory")
	rootCmd.Flags().BoolVar(&export, "export", false, "Also write each document as PDF")
	rootCmd.Flags().BoolVar(&collect, "collect", false, "Add the files to the server's collection")
	rootCmd.Flags().StringVar(&policy, "policy", "abort", "What a failed page does: abort or skip")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Give up after this long")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log controller activity")
}

func runDump(cmd *cobra.Command, args []string) error {
	failurePolicy, err := viewer.ParseFailurePolicy(policy)
	if err != nil {
		return err
	}
	if verbose {
		viewer.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	files := make([]viewer.File, 0, len(args))
	for _, arg := range args {
		data, err := os.ReadFile(arg)
		if err != nil {
			return fmt.Errorf("read %s: %w", arg, err)
		}
		files = append(files, viewer.File{Name: filepath.Base(arg), Data: data})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	d := &dumper{
		engine: client.NewEngineClient(serverURL, ""),
		out:    outDir,
		policy: failurePolicy,
		bar:    bar,
		export: export,
		log:    cmd.OutOrStdout(),
	}
	if err := d.run(ctx, files); err != nil {
		return err
	}
	if collect {
		count, err := d.collect(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d file(s) to the collection\n", count)
	}
	return nil
}
