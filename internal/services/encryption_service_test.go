package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journalmate/internal/models"
)

func TestEncryptDecryptEntry(t *testing.T) {
	svc, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	entry := &models.JournalEntry{Reflection: "kept it private"}
	require.NoError(t, svc.EncryptEntry(entry))
	assert.NotEqual(t, "kept it private", entry.Reflection)

	require.NoError(t, svc.DecryptEntry(entry))
	assert.Equal(t, "kept it private", entry.Reflection)
}

func TestNilServiceIsPassthrough(t *testing.T) {
	var svc *EncryptionService

	entry := &models.JournalEntry{Reflection: "stored as-is"}
	require.NoError(t, svc.EncryptEntry(entry))
	assert.Equal(t, "stored as-is", entry.Reflection)
	require.NoError(t, svc.DecryptEntry(entry))
	assert.Equal(t, "stored as-is", entry.Reflection)
}

func TestDecryptEntryKeepsStoredValueOnError(t *testing.T) {
	svc, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	// A plaintext row written before encryption was enabled.
	entry := &models.JournalEntry{Reflection: "written before the key existed"}
	err = svc.DecryptEntry(entry)
	assert.Error(t, err)
	assert.Equal(t, "written before the key existed", entry.Reflection)
}

func TestNewEncryptionServiceRejectsBadKey(t *testing.T) {
	_, err := NewEncryptionService([]byte("short"))
	assert.Error(t, err)
}
