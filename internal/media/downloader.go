package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/util"

	"go.uber.org/zap"
)

// YTDLPDownloader implements domain.AudioDownloader by shelling out to the
// yt-dlp binary. Each run writes to a ULID-named file under the configured
// temp directory so concurrent acquisitions never clobber each other.
type YTDLPDownloader struct {
	binary  string
	tempDir string
	logger  *zap.Logger
}

// NewYTDLPDownloader creates a new YTDLPDownloader instance.
func NewYTDLPDownloader(cfg config.MediaConfig, logger *zap.Logger) *YTDLPDownloader {
	return &YTDLPDownloader{
		binary:  cfg.YTDLPPath,
		tempDir: cfg.TempDir,
		logger:  logger,
	}
}

// videoInfo is the subset of yt-dlp's --print-json output we keep.
type videoInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Channel     string  `json:"channel"`
	Duration    float64 `json:"duration"`
}

// Download acquires the best available audio-only stream of the referenced
// video and transcodes it to mp3, the single input shape the transcriber
// supports. Playlist semantics are ignored; exactly the one referenced video
// is processed. All failures, including a missing output file after a
// successful exit, map to an acquisition error.
func (d *YTDLPDownloader) Download(ctx context.Context, canonicalURL string) (*domain.AudioAsset, error) {
	base := filepath.Join(d.tempDir, util.NewULID())
	outputTemplate := base + ".%(ext)s"

	args := []string{
		"--format", "bestaudio[ext=m4a]/bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--no-progress",
		"--print-json",
		"--output", outputTemplate,
		canonicalURL,
	}

	d.logger.Info("Acquiring audio",
		zap.String("url", canonicalURL),
		zap.String("output", outputTemplate),
	)

	stdout, err := d.run(ctx, args)
	if err != nil {
		return nil, domain.NewAcquisitionError(err)
	}

	info, err := parseVideoInfo(stdout)
	if err != nil {
		return nil, domain.NewAcquisitionError(fmt.Errorf("parsing yt-dlp metadata: %w", err))
	}

	audioPath := base + ".mp3"
	if _, err := os.Stat(audioPath); err != nil {
		return nil, domain.NewAcquisitionError(fmt.Errorf("expected audio file %s is missing after extraction: %w", audioPath, err))
	}

	d.logger.Info("Audio acquired",
		zap.String("url", canonicalURL),
		zap.String("path", audioPath),
		zap.String("title", info.Title),
		zap.Float64("duration_seconds", info.Duration),
	)

	return &domain.AudioAsset{
		Path: audioPath,
		Metadata: domain.SourceMetadata{
			Title:       info.Title,
			Description: info.Description,
			Channel:     info.Channel,
			Duration:    info.Duration,
		},
	}, nil
}

// parseVideoInfo decodes the single-video JSON document yt-dlp prints on
// stdout when invoked with --print-json.
func parseVideoInfo(raw []byte) (*videoInfo, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty metadata output")
	}

	var info videoInfo
	if err := json.Unmarshal(trimmed, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
