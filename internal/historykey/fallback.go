package historykey

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	saltSize         = 32
)

// fallbackBackend is used when no native credential store is reachable: it
// persists the single history key to an encrypted file under the user's
// home directory, the key for which is derived from machine-specific data
// (adapted from the teacher's internal/secrets.FallbackBackend).
type fallbackBackend struct {
	path string
	key  []byte
	mu   sync.Mutex
}

type envelope struct {
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

func newFallbackBackend() Backend {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".minishell")
	os.MkdirAll(dir, 0700)

	return &fallbackBackend{
		path: filepath.Join(dir, "historykey.enc"),
		key:  deriveMachineKey(),
	}
}

func (f *fallbackBackend) Set(_, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.encrypt([]byte(value))
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

func (f *fallbackBackend) Get(_ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}

	plaintext, err := f.decrypt(data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (f *fallbackBackend) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	derived := pbkdf2.Key(f.key, salt, pbkdf2Iterations, keySize, sha256.New)

	block, err := aes.NewCipher(derived)
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

	return json.Marshal(envelope{
		Salt:   salt,
		Nonce:  nonce,
		Cipher: gcm.Seal(nil, nonce, plaintext, nil),
	})
}

func (f *fallbackBackend) decrypt(data []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	derived := pbkdf2.Key(f.key, env.Salt, pbkdf2Iterations, keySize, sha256.New)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, errors.New("historykey: invalid nonce size")
	}
	return gcm.Open(nil, env.Nonce, env.Cipher, nil)
}

// deriveMachineKey derives a deterministic passphrase from the host and
// user identity, used only to protect the file-backed fallback — the
// native backends never need this.
func deriveMachineKey() []byte {
	home, _ := os.UserHomeDir()
	hostname, _ := os.Hostname()
	seed := home + ":" + hostname + ":minishell-historykey"
	return pbkdf2.Key([]byte(seed), []byte("minishell-historykey-salt"), pbkdf2Iterations, keySize, sha256.New)
}
