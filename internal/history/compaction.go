package history

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mholt/archives"
)

// compactLocked moves every entry beyond the configured limit out of the
// live blob store and into a single gzip-compressed, newline-delimited
// log file under the store's directory, then drops those entries and
// rewrites the manifest. Caller must hold s.mu.
//
// Grounded on the teacher's internal/engine/helpers_download.go extraction
// path (archives.Identify / archives.Extractor), run in the opposite
// direction with the same library's archives.CompressedArchive archiver.
func (s *Store) compactLocked() error {
	overflow := len(s.manifest) - s.limit
	if overflow <= 0 {
		return nil
	}
	retiring := s.manifest[:overflow]

	var buf bytes.Buffer
	for _, seq := range retiring {
		entry, err := s.readEntry(seq)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%s\t%d\t%s\n", entry.Timestamp.Format(time.RFC3339), entry.Status, entry.Line)
	}

	rotatedPath := filepath.Join(s.dir(), fmt.Sprintf("history-%d.log.gz", time.Now().UnixNano()))
	if err := s.writeCompactedLog(rotatedPath, buf.Bytes()); err != nil {
		return fmt.Errorf("history: compact: %w", err)
	}

	for _, seq := range retiring {
		if err := s.db.Delete(entryKey(seq)); err != nil {
			return fmt.Errorf("history: compact: drop entry %d: %w", seq, err)
		}
	}
	s.manifest = append([]int64(nil), s.manifest[overflow:]...)
	return s.saveManifest()
}

// writeCompactedLog spills plaintext to a scratch file and hands it to
// archives.FilesFromDisk so the gzip archiver operates on a real on-disk
// fs.File the same way the teacher's extractArchive reads a real archive
// file from disk, rather than hand-implementing fs.File.
func (s *Store) writeCompactedLog(path string, plaintext []byte) error {
	scratch, err := os.CreateTemp(s.dir(), "history-compact-*.log")
	if err != nil {
		return err
	}
	defer os.Remove(scratch.Name())
	defer scratch.Close()

	if _, err := scratch.Write(plaintext); err != nil {
		return err
	}
	if err := scratch.Close(); err != nil {
		return err
	}

	ctx := context.Background()
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{scratch.Name(): "history.log"})
	if err != nil {
		return fmt.Errorf("collect compacted log: %w", err)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	format := archives.CompressedArchive{Compression: archives.Gz{}}
	return format.Archive(ctx, out, files)
}

func (s *Store) dir() string {
	return filepath.Dir(s.dbPath)
}
