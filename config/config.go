package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the build pipeline configuration
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Matter    MatterConfig    `yaml:"frontmatter"`
	Templates TemplatesConfig `yaml:"templates"`
	Images    ImagesConfig    `yaml:"images"`
	Styles    StylesConfig    `yaml:"styles"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Commit    CommitConfig    `yaml:"commit"`
}

type SiteConfig struct {
	ContentDir string         `yaml:"content_dir"`
	SiteDir    string         `yaml:"site_dir"`
	PublicDir  string         `yaml:"public_dir"`
	Data       map[string]any `yaml:"data"`
}

// MatterConfig holds front-matter defaults applied to every page
type MatterConfig struct {
	Language         string   `yaml:"language"`
	Delimiters       []string `yaml:"delimiters"`
	ExcerptSeparator string   `yaml:"excerpt_separator"`
}

type TemplatesConfig struct {
	Engine   string `yaml:"engine"` // "go" or "vars"
	StartTag string `yaml:"start_tag"`
	EndTag   string `yaml:"end_tag"`
}

type ImagesConfig struct {
	OutputDir   string      `yaml:"output_dir"`
	Formats     []string    `yaml:"formats"`
	Widths      []int       `yaml:"widths"`
	IconSizes   []int       `yaml:"icon_sizes"`
	JPEGQuality int         `yaml:"jpeg_quality"`
	WebPQuality float32     `yaml:"webp_quality"`
	Sources     []Transform `yaml:"sources"`
}

// Transform describes one source image and its requested outputs.
// Empty fields fall back to the ImagesConfig defaults.
type Transform struct {
	Src            string   `yaml:"src"`
	Formats        []string `yaml:"formats"`
	Widths         []int    `yaml:"widths"`
	OutputDir      string   `yaml:"output_dir"`
	OutputBasename string   `yaml:"output_basename"`
}

type StylesConfig struct {
	SourceDir string `yaml:"source_dir"`
	OutputDir string `yaml:"output_dir"`
	Style     string `yaml:"style"` // expanded or compressed
}

type DeployConfig struct {
	Method      string `yaml:"method"`
	RsyncTarget string `yaml:"rsync_target"`
	RsyncOpts   string `yaml:"rsync_opts"`
	SSHKey      string `yaml:"ssh_key"`
}

type CommitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	Push        bool   `yaml:"push"`
	Remote      string `yaml:"remote"`
}

// Load reads and parses the configuration file.
// A .env file in the working directory is loaded first so the environment
// is populated before anything else reads it.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it only supplies optional overrides
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Matter.Language == "" {
		c.Matter.Language = "yaml"
	}
	if c.Templates.Engine == "" {
		c.Templates.Engine = "go"
	}
	if c.Images.JPEGQuality == 0 {
		c.Images.JPEGQuality = 85
	}
	if c.Images.WebPQuality == 0 {
		c.Images.WebPQuality = 80
	}
	if len(c.Images.IconSizes) == 0 {
		c.Images.IconSizes = []int{16, 32, 48}
	}
	if c.Styles.Style == "" {
		c.Styles.Style = "compressed"
	}
	if c.Commit.Remote == "" {
		c.Commit.Remote = "origin"
	}
}

// Validate checks if required configuration fields are set
func (c *Config) Validate() error {
	if c.Site.ContentDir == "" {
		return fmt.Errorf("site.content_dir is required")
	}
	if c.Site.SiteDir == "" {
		return fmt.Errorf("site.site_dir is required")
	}
	if c.Site.PublicDir == "" {
		return fmt.Errorf("site.public_dir is required")
	}
	if len(c.Matter.Delimiters) > 2 {
		return fmt.Errorf("frontmatter.delimiters accepts at most two values, got %d", len(c.Matter.Delimiters))
	}
	if e := c.Templates.Engine; e != "go" && e != "vars" {
		return fmt.Errorf("templates.engine must be \"go\" or \"vars\", got %q", e)
	}
	return nil
}
