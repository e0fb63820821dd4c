package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// run executes the yt-dlp binary with the given arguments and returns its
// stdout. Stderr is folded into the error so extraction failures carry the
// tool's own diagnostics.
func (d *YTDLPDownloader) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, d.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		d.logger.Warn("yt-dlp invocation failed",
			zap.Error(err),
			zap.String("stderr", detail),
		)
		if detail != "" {
			return nil, fmt.Errorf("%s: %w: %s", d.binary, err, detail)
		}
		return nil, fmt.Errorf("%s: %w", d.binary, err)
	}

	return stdout.Bytes(), nil
}
