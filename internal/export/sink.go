package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sink is the platform delivery channel for a finished CSV. Implementations
// must not retry; a delivery failure is reported to the caller once.
type Sink interface {
	SaveAndShare(ctx context.Context, content, filename string) error
}

// Filename returns the conventional export name for the current moment,
// e.g. "pesquisa_1718000000000.csv".
func Filename(now time.Time) string {
	return fmt.Sprintf("pesquisa_%d.csv", now.UnixMilli())
}

// FileSink writes exports into a local directory, the native-share
// equivalent of the survey app: the file is handed over to whatever picks
// it up from there.
type FileSink struct {
	Dir string
}

var _ Sink = (*FileSink)(nil)

func (s *FileSink) SaveAndShare(ctx context.Context, content, filename string) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	slog.InfoContext(ctx, "Export written", "path", path, "bytes", len(content))
	return nil
}
