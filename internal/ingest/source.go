package ingest

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/andresuchdata/stockwise/internal/drive"
	"github.com/andresuchdata/stockwise/internal/storage"
	"github.com/rs/zerolog/log"
)

// Source loads the sales files named by ref. A ref that names a folder (or
// prefix) yields every CSV and XLSX file inside it.
type Source interface {
	Load(ctx context.Context, ref string) ([]File, error)
}

type LocalSource struct{}

func (LocalSource) Load(ctx context.Context, ref string) ([]File, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", ref, err)
	}

	paths := []string{ref}
	if info.IsDir() {
		entries, err := os.ReadDir(ref)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", ref, err)
		}
		paths = paths[:0]
		for _, e := range entries {
			if !e.IsDir() && Supported(e.Name()) {
				paths = append(paths, filepath.Join(ref, e.Name()))
			}
		}
	}

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// ObjectSource reads from object storage. A ref ending in a supported
// extension is a single key; anything else is treated as a prefix.
type ObjectSource struct {
	Storage storage.ObjectStorage
}

func (s ObjectSource) Load(ctx context.Context, ref string) ([]File, error) {
	keys := []string{ref}
	if !Supported(ref) {
		objects, err := s.Storage.ListObjects(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", ref, err)
		}
		keys = keys[:0]
		for _, o := range objects {
			if Supported(o.Key) {
				keys = append(keys, o.Key)
			}
		}
		sort.Strings(keys)
	}

	files := make([]File, 0, len(keys))
	for _, key := range keys {
		data, err := s.Storage.GetObject(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		files = append(files, File{Name: path.Base(key), Data: data})
	}
	return files, nil
}

// DriveSource reads a Drive file id, or every sales file in a Drive folder id.
type DriveSource struct {
	Drive *drive.Service
}

func (s DriveSource) Load(ctx context.Context, ref string) ([]File, error) {
	meta, err := s.Drive.Stat(ctx, ref)
	if err != nil {
		return nil, err
	}

	entries := []*drive.File{meta}
	if meta.IsFolder() {
		entries, err = s.Drive.ListFiles(ctx, meta.ID)
		if err != nil {
			return nil, err
		}
	}

	var files []File
	for _, f := range entries {
		if f.IsFolder() || !Supported(f.Name) {
			log.Debug().Str("file", f.Name).Str("mime", f.MimeType).Msg("drive: skipping non-sales file")
			continue
		}
		data, err := s.Drive.Download(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: f.Name, Data: data})
	}
	return files, nil
}
