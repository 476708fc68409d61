package codepane_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/assert"
)

func setupEncryption(t *testing.T) *codepane.EncryptionManager {
	t.Helper()

	pair, err := codepane.GenerateNewEncryptionPair(t.TempDir())
	assert.Nil(t, err)

	em := codepane.NewEncryptionManager()
	assert.Nil(t, em.LoadEncryptionKeys(pair.PrivatePath, pair.PublicPath))
	return em
}

func TestGenerateNewEncryptionPair(t *testing.T) {
	dir := t.TempDir()

	pair, err := codepane.GenerateNewEncryptionPair(dir)
	assert.Nil(t, err)
	assert.Equal(t, filepath.Dir(pair.PublicPath), dir)

	pub, err := os.ReadFile(pair.PublicPath)
	assert.Nil(t, err)
	assert.Equal(t, string(pub), pair.PublicKey+"\n")

	stat, err := os.Stat(pair.PrivatePath)
	assert.Nil(t, err)
	assert.Equal(t, stat.Mode().Perm(), os.FileMode(0600))

	_, err = codepane.GenerateNewEncryptionPair("  ")
	assert.NotNil(t, err)
}

func TestEncryptionManager_RoundTrip(t *testing.T) {
	em := setupEncryption(t)
	assert.True(t, em.CanEncrypt())
	assert.True(t, em.CanDecrypt())

	encrypted, err := em.Encrypt("hello\nworld")
	assert.Nil(t, err)
	assert.True(t, codepane.IsAgeEncrypted(encrypted))

	plain, err := em.Decrypt(encrypted)
	assert.Nil(t, err)
	assert.Equal(t, plain, "hello\nworld")
}

func TestEncryptionManager_Disabled(t *testing.T) {
	em := codepane.NewEncryptionManager()
	assert.False(t, em.CanEncrypt())

	_, err := em.Encrypt("x")
	assert.ErrorIs(t, err, codepane.ErrEncryptionDisabled)

	_, err = em.Decrypt([]byte("age-encryption.org/v1\n"))
	assert.ErrorIs(t, err, codepane.ErrEncryptionDisabled)

	var nilManager *codepane.EncryptionManager
	assert.False(t, nilManager.CanDecrypt())
}

func TestEncryptionManager_RecipientsFileSkipsComments(t *testing.T) {
	pair, err := codepane.GenerateNewEncryptionPair(t.TempDir())
	assert.Nil(t, err)

	path := filepath.Join(t.TempDir(), "recipients.txt")
	assert.Nil(t, os.WriteFile(path, []byte("# team\n\n"+pair.PublicKey+"\n"), 0644))

	em := codepane.NewEncryptionManager()
	assert.Nil(t, em.AddRecipientsFromFile(path))
	assert.True(t, em.CanEncrypt())
	assert.False(t, em.CanDecrypt())
}

func TestEncryptionManager_LoadRequiresBothFiles(t *testing.T) {
	em := codepane.NewEncryptionManager()
	assert.NotNil(t, em.LoadEncryptionKeys("", "x"))
	assert.NotNil(t, em.LoadEncryptionKeys("x", ""))
}
