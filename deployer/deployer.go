package deployer

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/MathJSLab/mathjslab-www/config"
)

// Deployer handles the copy/clean/deploy tail of the pipeline
type Deployer struct {
	cfg *config.Config
}

// NewDeployer creates a new deployer
func NewDeployer(cfg *config.Config) *Deployer {
	return &Deployer{cfg: cfg}
}

// CopyDir copies a directory tree recursively. Existing files are
// overwritten.
func (d *Deployer) CopyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Calculate relative path
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode())
		}

		return copyFile(path, dstPath, info.Mode())
	})
}

// copyFile copies a single file
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// Clean removes the generated output directories: the public tree and the
// staged content inside the generator source.
func (d *Deployer) Clean() error {
	targets := []string{
		d.cfg.Site.PublicDir,
		filepath.Join(d.cfg.Site.SiteDir, "content"),
	}
	if d.cfg.Styles.OutputDir != "" {
		targets = append(targets, d.cfg.Styles.OutputDir)
	}

	for _, target := range targets {
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", target, err)
		}
		log.Printf("Removed: %s", target)
	}
	return nil
}

// Deploy syncs the public directory to the configured webhost via rsync
func (d *Deployer) Deploy() error {
	if d.cfg.Deploy.RsyncTarget == "" {
		return fmt.Errorf("deploy.rsync_target is not configured")
	}

	log.Printf("🌐 Deploying to webhost via rsync...")

	args := []string{
		"-avz",
		"--delete", // Remove files on remote that don't exist in source
		"--exclude", ".git",
	}

	if d.cfg.Deploy.RsyncOpts != "" {
		args = append(args, strings.Fields(d.cfg.Deploy.RsyncOpts)...)
	}

	// Add SSH key if specified
	if d.cfg.Deploy.SSHKey != "" {
		args = append(args, "-e", fmt.Sprintf("ssh -i %s", d.cfg.Deploy.SSHKey))
	}

	// Trailing slash: sync contents, not the directory itself
	args = append(args, d.cfg.Site.PublicDir+"/", d.cfg.Deploy.RsyncTarget)

	cmd := exec.Command("rsync", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("rsync failed: %s", string(output))
	}

	log.Printf("✓ Deployed to: %s", d.cfg.Deploy.RsyncTarget)
	return nil
}
