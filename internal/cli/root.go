package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/omnitool/internal/ui"
	"github.com/ytget/omnitool/internal/version"
)

// rootOptions carries the flags of the omnitool command
type rootOptions struct {
	configPath string
	toolID     string
	newApp     func() fyne.App
}

// NewRootCmd creates the omnitool command: the launcher GUI plus the list and
// version subcommands.
func NewRootCmd() *cobra.Command {
	return newRootCmd(func() fyne.App { return fyneapp.NewWithID(ui.AppID) })
}

func newRootCmd(newApp func() fyne.App) *cobra.Command {
	opts := &rootOptions{newApp: newApp}

	cmd := &cobra.Command{
		Use:          "omnitool",
		Short:        "OmniTool launcher",
		Long:         "OmniTool - a desktop launcher hosting independent tools, each in its own window.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: ./omnitool.yaml)")
	cmd.Flags().StringVar(&opts.toolID, "tool", "", "Open a single tool by id instead of the launcher")

	cmd.Version = version.Version
	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := Bootstrap(cmd.Context(), opts.configPath, nil, WithoutInstall())
			if err != nil {
				return err
			}
			defer rt.Close()

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tCATEGORY\tVERSION")
			for _, meta := range rt.Manager.ListAll() {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", meta.ID, meta.Name, meta.Category, meta.Version)
			}
			if err := writer.Flush(); err != nil {
				return err
			}

			for _, le := range rt.LoadErrors {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", le)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// runGUI opens the launcher, or a single tool with --tool, and runs the Fyne
// event loop next to the optional metrics server.
func runGUI(ctx context.Context, opts *rootOptions) error {
	a := opts.newApp()
	a.Settings().SetTheme(ui.NewTheme())

	rt, err := Bootstrap(ctx, opts.configPath, a)
	if err != nil {
		return err
	}
	defer rt.Close()

	if opts.toolID != "" {
		w, found, err := rt.Manager.Launch(opts.toolID)
		if !found {
			return exitError(1, "unknown tool %q (see 'omnitool list')", opts.toolID)
		}
		if err != nil {
			return fmt.Errorf("launch %s: %w", opts.toolID, err)
		}
		if fw, ok := w.(fyne.Window); ok {
			fw.SetMaster()
		}
	} else {
		win := a.NewWindow(ui.AppName)
		win.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
		ui.NewLauncher(win, rt.Manager, rt.Settings, rt.Logger)
		win.SetMaster()
		win.SetOnClosed(rt.Manager.Shutdown)
		win.Show()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if addr := rt.Config.Metrics.Addr; addr != "" {
		g.Go(func() error {
			rt.Logger.Info("serving metrics", zap.String("addr", addr))
			return rt.Metrics.Serve(gctx, addr)
		})
	}

	// A failed metrics server or a cancelled parent context stops the UI
	stopped := make(chan struct{})
	go func() {
		select {
		case <-gctx.Done():
			fyne.Do(a.Quit)
		case <-stopped:
		}
	}()

	a.Run()
	close(stopped)
	cancel()

	if err := g.Wait(); err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
