package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/MathJSLab/mathjslab-www/builder"
	"github.com/MathJSLab/mathjslab-www/commit"
	"github.com/MathJSLab/mathjslab-www/config"
	"github.com/MathJSLab/mathjslab-www/deployer"
	"github.com/MathJSLab/mathjslab-www/images"
	"github.com/MathJSLab/mathjslab-www/matter"
	"github.com/MathJSLab/mathjslab-www/render"
	"github.com/MathJSLab/mathjslab-www/watcher"
)

var CLI struct {
	Config string `short:"c" help:"Configuration file path" default:"config.yaml"`

	Build struct {
	} `cmd:"" help:"Render content, compile styles and run the site generator"`

	Watch struct {
	} `cmd:"" help:"Watch source folders and rebuild on change"`

	Images struct {
	} `cmd:"" help:"Convert configured source images into raster sizes and icons"`

	Copy struct {
		Src string `arg:"" help:"Source directory"`
		Dst string `arg:"" help:"Destination directory"`
	} `cmd:"" help:"Copy a directory tree"`

	Clean struct {
	} `cmd:"" help:"Remove generated output directories"`

	Commit struct {
		Dir     string `short:"d" help:"Repository directory" default:"."`
		Message string `short:"m" help:"Commit message (default: timestamped)"`
	} `cmd:"" help:"Stage and commit build output"`

	Deploy struct {
	} `cmd:"" help:"Rsync the public directory to the configured webhost"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var cmdErr error
	switch ctx.Command() {
	case "build":
		cmdErr = runBuild(cfg)
	case "watch":
		cmdErr = runWatch(cfg)
	case "images":
		cmdErr = runImages(cfg)
	case "copy <src> <dst>":
		cmdErr = deployer.NewDeployer(cfg).CopyDir(CLI.Copy.Src, CLI.Copy.Dst)
	case "clean":
		cmdErr = deployer.NewDeployer(cfg).Clean()
	case "commit":
		cmdErr = commit.NewHelper(cfg.Commit).Commit(CLI.Commit.Dir, CLI.Commit.Message)
	case "deploy":
		cmdErr = deployer.NewDeployer(cfg).Deploy()
	}

	if cmdErr != nil {
		log.Fatalf("%s failed: %v", ctx.Command(), cmdErr)
	}
}

// newRenderer assembles the renderer from the configured engine, notation
// defaults and site data.
func newRenderer(cfg *config.Config) (*render.Renderer, error) {
	var engine render.Engine
	switch cfg.Templates.Engine {
	case "vars":
		engine = render.VarEngine{StartTag: cfg.Templates.StartTag, EndTag: cfg.Templates.EndTag}
	default:
		engine = render.GoEngine{}
	}

	var matterOpts []matter.Option
	if cfg.Matter.Language != "" {
		matterOpts = append(matterOpts, matter.WithLanguage(cfg.Matter.Language))
	}
	if len(cfg.Matter.Delimiters) > 0 {
		matterOpts = append(matterOpts, matter.WithDelimiters(cfg.Matter.Delimiters...))
	}
	if cfg.Matter.ExcerptSeparator != "" {
		matterOpts = append(matterOpts, matter.WithExcerptSeparator(cfg.Matter.ExcerptSeparator))
	}

	opts, err := matter.NewOptions(matterOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid front-matter configuration: %w", err)
	}

	r := render.NewRenderer(matter.NewRegistry(), engine)
	r.SetDefaults(opts)
	r.SetGlobal(cfg.Site.Data)
	return r, nil
}

func runBuild(cfg *config.Config) error {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	return builder.NewSiteBuilder(cfg, renderer).Build()
}

func runImages(cfg *config.Config) error {
	if len(cfg.Images.Sources) == 0 {
		log.Println("No image sources configured")
		return nil
	}
	return images.NewConverter(cfg.Images).ConvertAll(cfg.Images.Sources)
}

func runWatch(cfg *config.Config) error {
	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	site := builder.NewSiteBuilder(cfg, renderer)

	// Initial build so the watch loop starts from a complete site
	if err := site.Build(); err != nil {
		return err
	}

	w, err := watcher.NewWatcher(cfg, func(path string) error {
		return site.Build()
	})
	if err != nil {
		return err
	}

	if err := w.Start(); err != nil {
		return err
	}
	log.Println("Watcher started. Press Ctrl+C to stop")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	return w.Stop()
}
