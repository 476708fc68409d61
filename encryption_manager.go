package codepane

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"filippo.io/age"
)

// ErrEncryptionDisabled is returned when a snippet needs keys that were never loaded.
var ErrEncryptionDisabled = errors.New("encryption is not configured")

// EncryptedSuffix marks snippet files stored in age format.
const EncryptedSuffix = ".age"

// EncryptionManager holds the age identities and recipients used for .age snippets.
type EncryptionManager struct {
	mu         sync.RWMutex
	recipients []age.Recipient
	identities []age.Identity
}

// NewEncryptionManager returns a manager without keys.
func NewEncryptionManager() *EncryptionManager {
	return &EncryptionManager{}
}

// AddRecipient parses an X25519 public key and adds it for encryption.
func (em *EncryptionManager) AddRecipient(publicKey string) error {
	recipient, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return fmt.Errorf("failed to parse recipient: %w", err)
	}

	em.mu.Lock()
	em.recipients = append(em.recipients, recipient)
	em.mu.Unlock()
	return nil
}

// AddRecipientsFromFile reads one public key per line.
// Empty lines and lines starting with # are ignored.
func (em *EncryptionManager) AddRecipientsFromFile(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	const fileSizeLimit = 16 << 20  // 16MiB
	const lineLengthLimit = 8 << 10 // 8KiB
	if stat, err := file.Stat(); err == nil && stat.Size() > fileSizeLimit {
		return fmt.Errorf("recipient file size exceeds limit: %d > %d", stat.Size(), fileSizeLimit)
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > lineLengthLimit {
			return fmt.Errorf("recipient line exceeds limit: %d > %d", len(line), lineLengthLimit)
		}
		if err := em.AddRecipient(line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// AddIdentity parses an X25519 private key and adds it for decryption.
func (em *EncryptionManager) AddIdentity(identityStr string) error {
	identity, err := age.ParseX25519Identity(identityStr)
	if err != nil {
		return fmt.Errorf("failed to parse identity: %w", err)
	}

	em.mu.Lock()
	em.identities = append(em.identities, identity)
	em.mu.Unlock()
	return nil
}

// AddIdentitiesFromFile loads every identity in an age identity file.
func (em *EncryptionManager) AddIdentitiesFromFile(filePath string) error {
	keyFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	defer func(keyFile *os.File) {
		_ = keyFile.Close()
	}(keyFile)

	identities, err := age.ParseIdentities(keyFile)
	if err != nil {
		return fmt.Errorf("failed to parse identities: %w", err)
	}

	em.mu.Lock()
	em.identities = append(em.identities, identities...)
	em.mu.Unlock()
	return nil
}

// LoadEncryptionKeys loads an identity file and a recipient file. Both are required.
func (em *EncryptionManager) LoadEncryptionKeys(identitiesFile, recipientsFile string) error {
	if identitiesFile == "" {
		return fmt.Errorf("no identity file specified")
	}
	if recipientsFile == "" {
		return fmt.Errorf("no recipient file specified")
	}

	if err := em.AddIdentitiesFromFile(identitiesFile); err != nil {
		return fmt.Errorf("failed to load identity file %s: %w", identitiesFile, err)
	}
	if err := em.AddRecipientsFromFile(recipientsFile); err != nil {
		return fmt.Errorf("failed to load recipient file %s: %w", recipientsFile, err)
	}

	return nil
}

// CanEncrypt reports whether any recipients are configured.
func (em *EncryptionManager) CanEncrypt() bool {
	if em == nil {
		return false
	}
	em.mu.RLock()
	defer em.mu.RUnlock()
	return len(em.recipients) > 0
}

// CanDecrypt reports whether any identities are configured.
func (em *EncryptionManager) CanDecrypt() bool {
	if em == nil {
		return false
	}
	em.mu.RLock()
	defer em.mu.RUnlock()
	return len(em.identities) > 0
}

// Encrypt encrypts content to all configured recipients.
func (em *EncryptionManager) Encrypt(content string) ([]byte, error) {
	if !em.CanEncrypt() {
		return nil, ErrEncryptionDisabled
	}

	em.mu.RLock()
	defer em.mu.RUnlock()

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, em.recipients...)
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypt writer: %w", err)
	}

	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write content: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close encrypt writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts age content with the configured identities.
func (em *EncryptionManager) Decrypt(encrypted []byte) (string, error) {
	if !em.CanDecrypt() {
		return "", ErrEncryptionDisabled
	}

	em.mu.RLock()
	defer em.mu.RUnlock()

	r, err := age.Decrypt(bytes.NewReader(encrypted), em.identities...)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read decrypted content: %w", err)
	}

	return buf.String(), nil
}

// IsAgeEncrypted checks for the age format header.
func IsAgeEncrypted(content []byte) bool {
	return bytes.HasPrefix(content, []byte("age-encryption.org/v1"))
}

// SaveKeyPairToFiles writes <baseName>.pub and a private <baseName>.txt into keysDir.
func SaveKeyPairToFiles(publicKey, privateKey, keysDir, baseName string) (publicPath, privatePath string, err error) {
	if err := os.MkdirAll(keysDir, 0700); err != nil {
		return "", "", fmt.Errorf("failed to create key directory: %w", err)
	}

	publicPath = filepath.Join(keysDir, baseName+".pub")
	privatePath = filepath.Join(keysDir, baseName+".txt")

	if err := os.WriteFile(publicPath, []byte(publicKey+"\n"), 0644); err != nil {
		return "", "", fmt.Errorf("failed to save public key: %w", err)
	}

	privateContent := fmt.Sprintf("# age identity file\n# generated: %s\n%s\n",
		time.Now().Format("2006-01-02 15:04:05"), privateKey)
	if err := os.WriteFile(privatePath, []byte(privateContent), 0600); err != nil {
		return "", "", fmt.Errorf("failed to save private key: %w", err)
	}

	return publicPath, privatePath, nil
}

// KeyPair describes a freshly generated identity and where it was saved.
type KeyPair struct {
	PublicKey   string
	PrivateKey  string
	PublicPath  string
	PrivatePath string
}

// GenerateNewEncryptionPair creates an X25519 identity and saves it under keysDir
// with a timestamped name.
func GenerateNewEncryptionPair(keysDir string) (KeyPair, error) {
	if strings.TrimSpace(keysDir) == "" {
		return KeyPair{}, fmt.Errorf("keys directory must be specified")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate identity: %w", err)
	}

	pair := KeyPair{
		PrivateKey: identity.String(),
		PublicKey:  identity.Recipient().String(),
	}

	baseName := "codepane-key-" + time.Now().Format("2006-01-02-15-04-05")
	pair.PublicPath, pair.PrivatePath, err = SaveKeyPairToFiles(pair.PublicKey, pair.PrivateKey, keysDir, baseName)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to save key pair: %w", err)
	}

	return pair, nil
}
