package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/finsolve-tech/finsight/internal/core"
)

// PushCorpus mirrors the local corpus tree into the object store so ingestion
// jobs elsewhere can pull from the bucket. The local tree is authoritative:
// present files are uploaded, and a corpus entry with no local copy has its
// remote object removed so a later pull cannot ingest stale content.
func PushCorpus(ctx context.Context, obj core.ObjectClient, dataDir string, corpus []SourceMapping) error {
	paths := make([]string, 0, len(corpus)+1)
	for _, m := range corpus {
		paths = append(paths, m.Path)
	}
	paths = append(paths, HRDataFile)

	for _, rel := range paths {
		f, err := os.Open(filepath.Join(dataDir, rel))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if derr := obj.DeleteFile(ctx, rel); derr != nil {
					return fmt.Errorf("remove stale %s: %w", rel, derr)
				}
				log.Printf("push: no local copy of %s, removed remote object", rel)
				continue
			}
			return fmt.Errorf("open %s: %w", rel, err)
		}

		url, err := obj.UploadFile(ctx, rel, f, ContentTypeForPath(rel))
		f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}
		log.Printf("push: %s -> %s", rel, url)
	}
	return nil
}
