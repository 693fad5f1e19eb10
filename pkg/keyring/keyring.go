package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned by Get when no entry exists for the service/user pair
var ErrNotFound = errors.New("keyring entry not found")

// Backend selects where entries are kept
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendSystem Backend = "system"
	BackendFile   Backend = "file"
)

// Store is durable key-value storage for secrets
type Store interface {
	Set(service, user, secret string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

// FileKeyring implements a file-based keyring for headless hosts
type FileKeyring struct {
	mu          sync.Mutex
	keyringPath string
	masterKey   []byte
}

// KeyringEntry represents a stored keyring entry
type KeyringEntry struct {
	Service string `json:"service"`
	User    string `json:"user"`
	Data    string `json:"data"` // encrypted data
}

// KeyringManager provides a unified interface over the system and file keyrings
type KeyringManager struct {
	fileKeyring *FileKeyring
	useFile     bool
}

// probeTimeout bounds the system keyring availability check
const probeTimeout = 5 * time.Second

// NewKeyringManager creates a keyring manager for the requested backend.
// With BackendAuto the system keyring is probed first and the file keyring
// is used when the probe fails or times out.
func NewKeyringManager(backend Backend, keyringPath, masterPassword string) *KeyringManager {
	switch backend {
	case BackendSystem:
		return &KeyringManager{useFile: false}
	case BackendFile:
		return &KeyringManager{fileKeyring: NewFileKeyring(keyringPath, masterPassword), useFile: true}
	}

	testService := "eaw-cli-probe"
	testKey := "probe-key"

	done := make(chan error, 1)
	go func() {
		err := keyring.Set(testService, testKey, "probe-value")
		if err == nil {
			_ = keyring.Delete(testService, testKey)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			return &KeyringManager{useFile: false}
		}
	case <-time.After(probeTimeout):
	}

	return &KeyringManager{
		fileKeyring: NewFileKeyring(keyringPath, masterPassword),
		useFile:     true,
	}
}

// NewFileKeyring creates a new file-based keyring
func NewFileKeyring(keyringPath, masterPassword string) *FileKeyring {
	hash := sha256.Sum256([]byte(masterPassword))

	return &FileKeyring{
		keyringPath: keyringPath,
		masterKey:   hash[:],
	}
}

// UsesFile reports whether entries are kept in the encrypted file
func (km *KeyringManager) UsesFile() bool {
	return km.useFile
}

// Set stores a value in the keyring (system or file)
func (km *KeyringManager) Set(service, user, secret string) error {
	if !km.useFile {
		return keyring.Set(service, user, secret)
	}
	return km.fileKeyring.Set(service, user, secret)
}

// Get retrieves a value from the keyring (system or file)
func (km *KeyringManager) Get(service, user string) (string, error) {
	if !km.useFile {
		v, err := keyring.Get(service, user)
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return v, err
	}
	return km.fileKeyring.Get(service, user)
}

// Delete removes a value from the keyring (system or file). Deleting a missing
// entry is not an error.
func (km *KeyringManager) Delete(service, user string) error {
	if !km.useFile {
		if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
		return nil
	}
	return km.fileKeyring.Delete(service, user)
}

// encrypt encrypts plaintext using AES-GCM
func (fk *FileKeyring) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(fk.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts ciphertext using AES-GCM
func (fk *FileKeyring) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(fk.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func (fk *FileKeyring) load() (map[string]KeyringEntry, error) {
	entries := make(map[string]KeyringEntry)

	data, err := os.ReadFile(fk.keyringPath)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring file: %w", err)
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse keyring file: %w", err)
	}
	return entries, nil
}

func (fk *FileKeyring) save(entries map[string]KeyringEntry) error {
	if err := os.MkdirAll(filepath.Dir(fk.keyringPath), 0o700); err != nil {
		return fmt.Errorf("failed to create keyring directory: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	return os.WriteFile(fk.keyringPath, data, 0o600)
}

func entryKey(service, user string) string {
	return fmt.Sprintf("%s:%s", service, user)
}

// Set stores an entry in the file keyring
func (fk *FileKeyring) Set(service, user, secret string) error {
	fk.mu.Lock()
	defer fk.mu.Unlock()

	entries, err := fk.load()
	if err != nil {
		return err
	}

	encrypted, err := fk.encrypt(secret)
	if err != nil {
		return err
	}

	entries[entryKey(service, user)] = KeyringEntry{
		Service: service,
		User:    user,
		Data:    encrypted,
	}

	return fk.save(entries)
}

// Get retrieves an entry from the file keyring
func (fk *FileKeyring) Get(service, user string) (string, error) {
	fk.mu.Lock()
	defer fk.mu.Unlock()

	entries, err := fk.load()
	if err != nil {
		return "", err
	}

	entry, exists := entries[entryKey(service, user)]
	if !exists {
		return "", ErrNotFound
	}

	return fk.decrypt(entry.Data)
}

// Delete removes an entry from the file keyring
func (fk *FileKeyring) Delete(service, user string) error {
	fk.mu.Lock()
	defer fk.mu.Unlock()

	if _, err := os.Stat(fk.keyringPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	entries, err := fk.load()
	if err != nil {
		return err
	}

	key := entryKey(service, user)
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)

	return fk.save(entries)
}

// GetMasterPasswordFromEnv gets the file keyring password from the environment
func GetMasterPasswordFromEnv() string {
	if password := os.Getenv("EAW_KEYRING_PASSWORD"); password != "" {
		return password
	}
	// Default password for development (change this in production!)
	return "default-master-password-change-me"
}

// GetDefaultKeyringPath returns the default keyring file path
func GetDefaultKeyringPath() string {
	if path := os.Getenv("EAW_KEYRING_PATH"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "eaw-keyring.json")
	}
	return filepath.Join(homeDir, ".local", "share", "eaw", "keyring.json")
}
