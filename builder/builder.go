package builder

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/MathJSLab/mathjslab-www/config"
	"github.com/MathJSLab/mathjslab-www/matter"
	"github.com/MathJSLab/mathjslab-www/render"
)

// SiteBuilder stages rendered content, compiles style sheets and invokes
// the external site generator.
type SiteBuilder struct {
	cfg      *config.Config
	renderer *render.Renderer
}

// NewSiteBuilder creates a builder around the configured renderer.
func NewSiteBuilder(cfg *config.Config, renderer *render.Renderer) *SiteBuilder {
	return &SiteBuilder{cfg: cfg, renderer: renderer}
}

// Build runs the full pipeline: stage content, compile styles, run the
// generator.
func (b *SiteBuilder) Build() error {
	log.Printf("🔨 Building site from %s", b.cfg.Site.ContentDir)

	if err := b.StageContent(); err != nil {
		return fmt.Errorf("failed to stage content: %w", err)
	}

	if b.cfg.Styles.SourceDir != "" {
		if err := b.CompileStyles(); err != nil {
			return fmt.Errorf("failed to compile styles: %w", err)
		}
	}

	if err := b.RunGenerator(); err != nil {
		return fmt.Errorf("failed to build site: %w", err)
	}

	log.Printf("✅ Site built: %s", b.cfg.Site.PublicDir)
	return nil
}

// StageContent renders every content page with site data injection and
// writes the result into the generator's content tree. Front-matter
// expressions resolve against the site data; the parsed fields are
// re-emitted as YAML so the generator still sees them.
func (b *SiteBuilder) StageContent() error {
	contentDir := b.cfg.Site.ContentDir
	stagingDir := filepath.Join(b.cfg.Site.SiteDir, "content")

	return filepath.Walk(contentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".html" {
			return nil
		}
		// Skip editor temp files
		if strings.HasPrefix(filepath.Base(path), ".") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		res, err := b.renderer.Render(string(data))
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", path, err)
		}

		staged, err := matter.Stringify(res.Rendered, res.Fields, b.renderer.Registry(), "yaml", matter.Options{})
		if err != nil {
			return fmt.Errorf("failed to stage %s: %w", path, err)
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(stagingDir, relPath)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create content directory: %w", err)
		}
		if err := os.WriteFile(target, []byte(staged), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}

		log.Printf("Staged: %s", relPath)
		return nil
	})
}

// CompileStyles runs the external sass compiler over the style source
// directory.
func (b *SiteBuilder) CompileStyles() error {
	outDir := b.cfg.Styles.OutputDir
	if outDir == "" {
		outDir = filepath.Join(b.cfg.Site.SiteDir, "static", "css")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create style output directory: %w", err)
	}

	args := []string{
		fmt.Sprintf("--style=%s", b.cfg.Styles.Style),
		"--no-source-map",
		b.cfg.Styles.SourceDir + ":" + outDir,
	}

	cmd := exec.Command("sass", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("Sass build error: %s", string(output))
		return fmt.Errorf("sass build failed: %w", err)
	}
	log.Printf("Styles compiled to %s", outDir)
	return nil
}

// RunGenerator runs the hugo build command.
func (b *SiteBuilder) RunGenerator() error {
	// Get absolute paths
	siteDir, err := filepath.Abs(b.cfg.Site.SiteDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute site path: %w", err)
	}

	publicDir, err := filepath.Abs(b.cfg.Site.PublicDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute public path: %w", err)
	}

	cmd := exec.Command("hugo", "--source", siteDir, "--destination", publicDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("Hugo build error: %s", string(output))
		return fmt.Errorf("hugo build failed: %w", err)
	}
	log.Printf("Hugo build successful")
	return nil
}
