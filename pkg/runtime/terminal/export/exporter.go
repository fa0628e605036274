package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Exporter writes one CSV file per table into a directory and optionally
// mirrors each file to S3.
type Exporter struct {
	dir      string
	uploader *Uploader
}

func NewExporter(dir string, uploader *Uploader) *Exporter {
	return &Exporter{dir: dir, uploader: uploader}
}

// FileName is the file a table computed as of asOf is exported to.
func FileName(t domain.Table, asOf time.Time) string {
	return fmt.Sprintf("%s_%s.csv", t.Name, asOf.Format("20060102"))
}

// Export returns the local paths written, in table order.
func (e *Exporter) Export(ctx context.Context, tables []domain.Table, asOf time.Time) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir %s: %w", e.dir, err)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, t); err != nil {
			return paths, err
		}

		name := FileName(t, asOf)
		p := filepath.Join(e.dir, name)
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", p, err)
		}
		paths = append(paths, p)
		logger.Debug().Str("path", p).Int("rows", len(t.Rows)).Msg("table exported")

		if e.uploader == nil {
			continue
		}
		key, err := e.uploader.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return paths, err
		}
		logger.Info().Str("key", key).Msg("table uploaded")
	}
	return paths, nil
}
