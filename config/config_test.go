package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
site:
  content_dir: content
  site_dir: site
  public_dir: public
  data:
    project: mathjslab
frontmatter:
  language: toml
  delimiters: ["+++"]
  excerpt_separator: "<!-- more -->"
templates:
  engine: vars
  start_tag: "${"
  end_tag: "}"
images:
  output_dir: site/static/img
  formats: [webp, png]
  widths: [320, 800]
  sources:
    - src: assets/logo.svg.png
      formats: [png, ico]
      widths: [16, 32, 48]
      output_basename: favicon
deploy:
  rsync_target: www@host:/var/www/site
commit:
  author_name: builder
  author_email: builder@example.org
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Site.ContentDir != "content" {
		t.Errorf("Expected content_dir 'content', got %q", cfg.Site.ContentDir)
	}
	if cfg.Site.Data["project"] != "mathjslab" {
		t.Errorf("Expected site data, got %v", cfg.Site.Data)
	}
	if cfg.Matter.Language != "toml" {
		t.Errorf("Expected language 'toml', got %q", cfg.Matter.Language)
	}
	if len(cfg.Matter.Delimiters) != 1 || cfg.Matter.Delimiters[0] != "+++" {
		t.Errorf("Expected delimiters ['+++'], got %v", cfg.Matter.Delimiters)
	}
	if cfg.Templates.Engine != "vars" {
		t.Errorf("Expected engine 'vars', got %q", cfg.Templates.Engine)
	}
	if len(cfg.Images.Sources) != 1 || cfg.Images.Sources[0].OutputBasename != "favicon" {
		t.Errorf("Expected one favicon source, got %v", cfg.Images.Sources)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  content_dir: content
  site_dir: site
  public_dir: public
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Matter.Language != "yaml" {
		t.Errorf("Expected default language 'yaml', got %q", cfg.Matter.Language)
	}
	if cfg.Templates.Engine != "go" {
		t.Errorf("Expected default engine 'go', got %q", cfg.Templates.Engine)
	}
	if cfg.Images.JPEGQuality != 85 {
		t.Errorf("Expected default jpeg quality 85, got %d", cfg.Images.JPEGQuality)
	}
	if len(cfg.Images.IconSizes) != 3 {
		t.Errorf("Expected default icon sizes, got %v", cfg.Images.IconSizes)
	}
	if cfg.Commit.Remote != "origin" {
		t.Errorf("Expected default remote 'origin', got %q", cfg.Commit.Remote)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing content dir",
			content: "site:\n  site_dir: site\n  public_dir: public\n",
			wantErr: "content_dir",
		},
		{
			name:    "missing site dir",
			content: "site:\n  content_dir: content\n  public_dir: public\n",
			wantErr: "site_dir",
		},
		{
			name:    "too many delimiters",
			content: "site:\n  content_dir: c\n  site_dir: s\n  public_dir: p\nfrontmatter:\n  delimiters: [a, b, c]\n",
			wantErr: "delimiters",
		},
		{
			name:    "bad engine",
			content: "site:\n  content_dir: c\n  site_dir: s\n  public_dir: p\ntemplates:\n  engine: jinja\n",
			wantErr: "engine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}
