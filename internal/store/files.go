package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/workbin-dev/workbin/internal/models"
)

// FileEntry describes one stored file inside a project directory.
type FileEntry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at"`
	Path    string    `json:"-"`
}

// ListFiles returns the project directory listing. The filesystem is the
// sole source of truth; there are no database rows to reconcile.
func ListFiles(project *models.Project) ([]FileEntry, error) {
	dir := ProjectDir(project)

	entries, err := os.ReadDir(dir)

	if err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()

		if err != nil {
			return nil, err
		}

		files = append(files, FileEntry{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Path:    filepath.Join(dir, entry.Name()),
		})
	}

	return files, nil
}

// GetFile resolves name to an existing entry in the project directory.
func GetFile(project *models.Project, name string) (*FileEntry, error) {
	base, err := safeBaseName(name)

	if err != nil {
		return nil, err
	}

	path := filepath.Join(ProjectDir(project), base)

	info, err := os.Stat(path)

	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if info.IsDir() {
		return nil, ErrNotFound
	}

	return &FileEntry{
		Name:    base,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Path:    path,
	}, nil
}

// SaveUpload writes the stream under its verbatim base name inside the
// project directory. A second upload with the same name replaces the
// first; last write wins.
func SaveUpload(project *models.Project, name string, r io.Reader) (string, error) {
	base, err := safeBaseName(name)

	if err != nil {
		return "", err
	}

	return writeStream(filepath.Join(ProjectDir(project), base), r)
}

// SaveSharedUpload stores a file in the shared uploads area under a
// random-prefixed name, so unrelated uploads never collide.
func SaveSharedUpload(name string, r io.Reader) (string, error) {
	base, err := safeBaseName(name)

	if err != nil {
		return "", err
	}

	prefix := strings.ReplaceAll(uuid.New().String(), "-", "")

	return writeStream(filepath.Join(sharedUploadsDir(), prefix+"_"+base), r)
}

// DeleteFile removes a single stored file. There is no recycle bin.
func DeleteFile(project *models.Project, name string) error {
	entry, err := GetFile(project, name)

	if err != nil {
		return err
	}

	return os.Remove(entry.Path)
}

// safeBaseName reduces name to a single path element so the destination
// cannot resolve outside the storage directory.
func safeBaseName(name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))

	if base == "." || base == ".." || base == string(filepath.Separator) || strings.ContainsAny(base, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	return base, nil
}

func writeStream(dest string, r io.Reader) (string, error) {
	out, err := os.Create(dest)

	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dest)
		return "", err
	}

	if err := out.Close(); err != nil {
		return "", err
	}

	return dest, nil
}
