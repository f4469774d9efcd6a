package video

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Downloader fetches a source video with yt-dlp into a scratch file.
// The caller owns the returned path and is responsible for removing it.
type Downloader struct {
	Dir        string // scratch directory; defaults to os.TempDir()
	randSource *rand.Rand
}

func NewDownloader(dir string) *Downloader {
	src := rand.NewSource(time.Now().UnixNano())
	return &Downloader{Dir: dir, randSource: rand.New(src)}
}

func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, fmt.Sprintf("audit-video-%d.mp4", d.randSource.Int()))

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-f", "best[ext=mp4]/best",
		"--no-playlist",
		"--no-warnings",
		"-o", outPath,
		url,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed: %v, output=%s", err, string(out))
	}

	if _, err := os.Stat(outPath); err != nil {
		// merger may have appended the extension a second time
		if _, err2 := os.Stat(outPath + ".mp4"); err2 == nil {
			if renameErr := os.Rename(outPath+".mp4", outPath); renameErr != nil {
				return "", renameErr
			}
			return outPath, nil
		}
		return "", fmt.Errorf("downloaded file not found at %s", outPath)
	}
	return outPath, nil
}
