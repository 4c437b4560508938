package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-panel/internal/config"
)

// OncoKB cancer gene list, public without a token.
const (
	geneListURL  = "https://www.oncokb.org/api/v1/utils/cancerGeneList.txt"
	geneListFile = "cancerGeneList.tsv"
)

func newDownloadCmd(a *app) *cobra.Command {
	var (
		outputDir string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the OncoKB cancer gene list",
		Long: `Download the OncoKB cancer gene list used for the oncogene and TSG pills.

After downloading, vibe-panel will automatically detect and use this file.`,
		Example: `  vibe-panel download
  vibe-panel download --output /data/oncokb`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = config.DataDir()
				if outputDir == "" {
					return fmt.Errorf("cannot determine home directory")
				}
			}
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", outputDir, err)
			}

			out := cmd.OutOrStdout()
			dest := filepath.Join(outputDir, geneListFile)
			if force {
				os.Remove(dest)
			}
			fmt.Fprintf(out, "Downloading OncoKB cancer gene list...\n")
			fmt.Fprintf(out, "Destination: %s\n\n", outputDir)
			if err := downloadFile(out, geneListURL, dest); err != nil {
				return fmt.Errorf("download cancer gene list: %w", err)
			}

			fmt.Fprintf(out, "\nDownload complete!\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: ~/.vibe-panel/)")
	cmd.Flags().BoolVar(&force, "force", false, "Download again even if the file exists")
	return cmd
}

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(out io.Writer, url, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(out, "  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Fprintf(out, "  Downloading %s...\n", filepath.Base(destPath))

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var downloaded int64
	pw := &progressWriter{
		out:        out,
		total:      resp.ContentLength,
		downloaded: &downloaded,
		lastPrint:  time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Fprintf(out, "    Done: %s\n", formatSize(downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded *int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	*pw.downloaded += int64(n)

	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(*pw.downloaded) / float64(pw.total) * 100
			fmt.Fprintf(pw.out, "\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(*pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Fprintf(pw.out, "\r    Progress: %s  ", formatSize(*pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// findGeneList returns the downloaded cancer gene list, or "" if there is none.
func findGeneList() string {
	dir := config.DataDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, geneListFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
