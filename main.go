package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// renderOptions holds the flags of the render command
type renderOptions struct {
	width     int
	height    int
	threads   int
	seed      int64
	output    string
	scale     float64
	scenesDir string
}

func main() {
	if err := newRootCmd(renderer.NewDefaultLogger()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger core.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "raytracer",
		Short:         "Whitted-style CPU ray tracer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRenderCmd(logger), newScenesCmd(logger))
	return root
}

func newRenderCmd(logger core.Logger) *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a built-in scene or a scene file",
		Long: `Render a scene to an image file.

The scene is a built-in scene name (see "raytracer scenes"), the name of a
.txt file in the scenes directory, or a path to a scene file.
Output format is chosen from the extension: .png, .bmp or .tiff.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "simple"
			if len(args) == 1 {
				name = args[0]
			}
			return runRender(name, opts, logger)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.width, "width", 500, "Image width in pixels")
	flags.IntVar(&opts.height, "height", 500, "Image height in pixels")
	flags.IntVar(&opts.threads, "threads", 0, "Number of render workers (0 = CPU count)")
	flags.Int64Var(&opts.seed, "seed", renderer.DefaultRenderConfig().Seed, "Random seed for supersampling and soft shadows")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default output/<scene>/render_<timestamp>.png)")
	flags.Float64Var(&opts.scale, "scale", 1, "Resize factor applied to the rendered image before saving")
	flags.StringVar(&opts.scenesDir, "scenes-dir", "", "Directory searched for scene files (default scenes or ../scenes)")
	return cmd
}

func newScenesCmd(logger core.Logger) *cobra.Command {
	var scenesDir string
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := scene.ListAllScenes(scenesDir, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, info := range scenes {
				id := info.ID
				if info.Type == scene.SceneTypeFile {
					id = info.FilePath
				}
				fmt.Fprintf(out, "%-28s %s", id, info.Name)
				if info.Description != "" {
					fmt.Fprintf(out, " - %s", info.Description)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenesDir, "scenes-dir", "", "Directory searched for scene files (default scenes or ../scenes)")
	return cmd
}

func runRender(name string, opts renderOptions, logger core.Logger) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", opts.width, opts.height)
	}

	logger.Printf("Loading scene %s...\n", name)
	s, err := createScene(name, loaders.LoadOptions{Width: opts.width, Height: opts.height, Logger: logger}, opts.scenesDir)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		timestamp := time.Now().Format("20060102_150405")
		output = filepath.Join("output", sceneSlug(name), fmt.Sprintf("render_%s.png", timestamp))
	}
	// Fail on a bad extension before spending time rendering
	if _, err := loaders.FormatFromFilename(output); err != nil {
		return err
	}

	config := renderer.RenderConfig{
		NumWorkers:  opts.threads,
		Seed:        opts.seed,
		RowCallback: progressLogger(logger, s.Height()),
	}
	colorImage, stats, err := renderer.Render(s, config, logger)
	if err != nil {
		return err
	}
	logger.Printf("%d rays traced, %.0f rays/s\n", stats.TracedRays+stats.ShadowRays, stats.RaysPerSecond())

	var img image.Image = colorImage.ToRGBA()
	if opts.scale != 1 {
		if img, err = loaders.ScaleImage(img, opts.scale); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := loaders.SaveImage(output, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", output)
	return nil
}

// createScene resolves a scene by built-in name, scene file name or path
func createScene(name string, options loaders.LoadOptions, scenesDir string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name must not be empty")
	}

	if strings.HasSuffix(name, ".txt") || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return loaders.LoadScene(name, options)
	}

	for _, builtin := range scene.BuiltinSceneNames() {
		if builtin == name {
			return scene.NewBuiltinScene(name, options.Width, options.Height)
		}
	}

	if dir := scene.FindScenesDir(scenesDir); dir != "" {
		path := filepath.Join(dir, name+".txt")
		if _, err := os.Stat(path); err == nil {
			return loaders.LoadScene(path, options)
		}
	}

	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(scene.BuiltinSceneNames(), ", "))
}

// sceneSlug turns a scene name or path into an output directory name
func sceneSlug(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// progressLogger logs every tenth of the image
func progressLogger(logger core.Logger, height int) renderer.RowCallback {
	step := max(1, height/10)
	return func(row int, colors []core.Color, completed int) {
		if completed%step == 0 || completed == height {
			logger.Printf("Rendered %d/%d rows (%.0f%%)\n", completed, height, 100*float64(completed)/float64(height))
		}
	}
}
