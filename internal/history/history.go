// Package history persists the REPL/driver's line-by-line record — the
// "external history store" collaborator SPEC_FULL.md §2.3/§3.1 adds to
// spec.md §6's evaluator/REPL split. Entries are kept in a
// github.com/phillarmonic/SoloDB blob store (the same library and
// Durability/expiration API the teacher's internal/cache.Manager uses for
// its remote-include cache), optionally AES-GCM encrypted with the key
// internal/historykey manages, and compacted to a gzip archive once the
// configured entry limit is exceeded.
package history

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	solodb "github.com/phillarmonic/SoloDB"

	"github.com/glasswing-labs/minishell/internal/historykey"
)

// never is a far-future expiration; SoloDB's blob API is expiration-based
// (there is no "permanent" sentinel in the teacher's usage of it), so
// history entries are simply given a 100-year horizon and are instead
// retired explicitly by Store.compactLocked once limit is exceeded.
const never = 100 * 365 * 24 * time.Hour

// Entry is one recorded command line and the status it produced.
type Entry struct {
	Line      string    `json:"line"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is an opened history database.
type Store struct {
	db     *solodb.DB
	dbPath string
	limit  int
	secure bool
	keyMgr *historykey.Manager

	mu       sync.Mutex
	manifest []int64 // sequence numbers of live entries, oldest first
	nextSeq  int64
}

const manifestKey = "history:manifest"

// Open opens (creating if absent) the blob store at path. limit is the
// number of entries retained before older ones are compacted away;
// secure, when true, encrypts each entry with historykey's managed key.
func Open(path string, limit int, secure bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("history: create directory for %s: %w", path, err)
	}

	db, err := solodb.Open(solodb.Options{
		Path:       path,
		Durability: solodb.SyncBatch,
	})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	s := &Store{db: db, dbPath: path, limit: limit, secure: secure}
	if secure {
		s.keyMgr = historykey.NewManager()
	}

	if err := s.loadManifest(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) loadManifest() error {
	rc, _, _, err := s.db.GetBlob(manifestKey)
	if err == solodb.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("history: read manifest: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("history: read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &s.manifest); err != nil {
		return fmt.Errorf("history: decode manifest: %w", err)
	}
	if len(s.manifest) > 0 {
		s.nextSeq = s.manifest[len(s.manifest)-1] + 1
	}
	return nil
}

func (s *Store) saveManifest() error {
	data, err := json.Marshal(s.manifest)
	if err != nil {
		return err
	}
	return s.db.SetBlob(manifestKey, bytes.NewReader(data), int64(len(data)), time.Now().Add(never))
}

// Append records a new history entry and, once the store holds more than
// limit entries, compacts the oldest ones into an archive file (§3.1).
func (s *Store) Append(line string, status int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{Line: line, Status: status, Timestamp: time.Now()}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("history: encode entry: %w", err)
	}
	if s.secure {
		payload, err = s.encrypt(payload)
		if err != nil {
			return fmt.Errorf("history: encrypt entry: %w", err)
		}
	}

	seq := s.nextSeq
	s.nextSeq++
	key := entryKey(seq)

	if err := s.db.SetBlob(key, bytes.NewReader(payload), int64(len(payload)), time.Now().Add(never)); err != nil {
		return fmt.Errorf("history: write entry: %w", err)
	}
	s.manifest = append(s.manifest, seq)

	if err := s.saveManifest(); err != nil {
		return err
	}

	if s.limit > 0 && len(s.manifest) > s.limit {
		if err := s.compactLocked(); err != nil {
			return err
		}
	}
	return nil
}

// All returns every live entry, oldest first.
func (s *Store) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.manifest))
	for _, seq := range s.manifest {
		entry, err := s.readEntry(seq)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Store) readEntry(seq int64) (Entry, error) {
	rc, _, _, err := s.db.GetBlob(entryKey(seq))
	if err != nil {
		return Entry{}, fmt.Errorf("history: read entry %d: %w", seq, err)
	}
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	if err != nil {
		return Entry{}, fmt.Errorf("history: read entry %d: %w", seq, err)
	}
	if s.secure {
		payload, err = s.decrypt(payload)
		if err != nil {
			return Entry{}, fmt.Errorf("history: decrypt entry %d: %w", seq, err)
		}
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return Entry{}, fmt.Errorf("history: decode entry %d: %w", seq, err)
	}
	return entry, nil
}

func entryKey(seq int64) string {
	return fmt.Sprintf("history:entry:%d", seq)
}

func (s *Store) encrypt(plaintext []byte) ([]byte, error) {
	key, err := s.keyMgr.Key()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return append(nonce, gcm.Seal(nil, nonce, plaintext, nil)...), nil
}

func (s *Store) decrypt(data []byte) ([]byte, error) {
	key, err := s.keyMgr.Key()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("history: ciphertext too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Close closes the underlying blob store.
func (s *Store) Close() error {
	return s.db.Close()
}
