package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geoboard/board"
	"geoboard/logging"
	"geoboard/scene"
	"geoboard/server"
)

const defaultScene = "triangle"

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "geoboard",
		Short:         "Interactive geometry diagrams with draggable points",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	root.AddCommand(newRunCmd(), newServeCmd(), newRenderCmd(), newSnapshotCmd(), newScenesCmd())
	return root
}

func setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func sceneArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultScene
}

// isSceneFile reports whether ref names a file rather than a built-in.
func isSceneFile(ref string) bool {
	_, err := scene.Builtin(ref)
	return err != nil
}

func newRunCmd() *cobra.Command {
	var fps int
	var single bool
	var logFile string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "run [SCENE]",
		Short: "Open a scene in the terminal",
		Long:  "Opens a built-in scene or a scene file in the terminal. Scene files are reloaded when they change.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cmd.Flags().Changed("fps") {
				cfg.FPS = min(max(fps, minFPS), maxFPS)
			}
			if logFile != "" {
				cfg.LogFile = logFile
			}
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				setupLogging(f)
			}

			ref := sceneArg(args)
			sc, err := scene.Open(ref)
			if err != nil {
				return err
			}
			b, err := board.New(cfg.CellWidth*80, cfg.CellHeight*20, cfg.boardOptions(single))
			if err != nil {
				return err
			}
			if err := sc.Apply(b); err != nil {
				return err
			}

			p := tea.NewProgram(
				initialModel(b, sc, ref, cfg),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
			)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if !noWatch && isSceneFile(ref) {
				go func() {
					err := scene.Watch(ctx, ref, func(sc *scene.Scene, err error) {
						p.Send(sceneMsg{scene: sc, err: err})
					})
					if err != nil {
						logging.Logger().Warn("scene watch stopped", "err", err)
					}
				}()
			}
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&fps, "fps", defaultFPS, "Frames per second")
	cmd.Flags().BoolVar(&single, "single-pointer", false, "Treat all input as one mouse pointer")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the scene file when it changes")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	var fps, width, height int
	var single bool

	cmd := &cobra.Command{
		Use:   "serve [SCENE]",
		Short: "Serve a scene to browsers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(os.Stderr)
			cfg := loadConfig()
			if cmd.Flags().Changed("fps") {
				cfg.FPS = min(max(fps, minFPS), maxFPS)
			}
			ref := sceneArg(args)
			sc, err := scene.Open(ref)
			if err != nil {
				return err
			}
			srvCfg := server.Config{
				Addr:    addr,
				FPS:     cfg.FPS,
				Width:   width,
				Height:  height,
				Options: cfg.boardOptions(single),
			}
			if isSceneFile(ref) {
				srvCfg.ScenePath = ref
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(sc, srvCfg).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	cmd.Flags().IntVar(&fps, "fps", defaultFPS, "Frames per second per connection")
	cmd.Flags().IntVar(&width, "width", 600, "Initial surface width")
	cmd.Flags().IntVar(&height, "height", 400, "Initial surface height")
	cmd.Flags().BoolVar(&single, "single-pointer", false, "Treat all input as one mouse pointer")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var out string
	var width, height int

	cmd := &cobra.Command{
		Use:   "render SCENE",
		Short: "Render the first frame of a scene to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(os.Stderr)
			b, err := loadBoard(args[0], width, height)
			if err != nil {
				return err
			}
			b.Tick()
			if err := b.Surface().SavePNG(out); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}
			w, h := b.Surface().BackingSize()
			logging.Logger().Info("rendered", "scene", args[0], "file", out, "width", w, "height", h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "geoboard.png", "PNG file to write")
	cmd.Flags().IntVar(&width, "width", 600, "Available width in pixels")
	cmd.Flags().IntVar(&height, "height", 400, "Available height in pixels")
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot SCENE",
		Short: "Print the initial values of a scene's points and controls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBoard(args[0], 600, 400)
			if err != nil {
				return err
			}
			b.Tick()
			_, err = io.WriteString(cmd.OutOrStdout(), snapshotText(b.Snapshot()))
			return err
		},
	}
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scene.Builtins() {
				sc, err := scene.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", name, sc.Title)
			}
			return nil
		},
	}
}

// loadBoard builds a headless board for the scene referenced by ref.
func loadBoard(ref string, width, height int) (*board.Board, error) {
	sc, err := scene.Open(ref)
	if err != nil {
		return nil, err
	}
	b, err := board.New(width, height, loadConfig().boardOptions(false))
	if err != nil {
		return nil, err
	}
	if err := sc.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}
