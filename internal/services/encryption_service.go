package services

import (
	"journalmate/internal/crypto"
	"journalmate/internal/models"
)

// EncryptionService wraps the cipher with domain-specific methods. Journal
// reflections are the only free-text users are promised privacy on; the
// structured fields stay queryable.
type EncryptionService struct {
	cipher *crypto.Cipher
}

func NewEncryptionService(key []byte) (*EncryptionService, error) {
	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

// EncryptEntry encrypts sensitive journal fields before storing in DB.
func (s *EncryptionService) EncryptEntry(entry *models.JournalEntry) error {
	if s == nil {
		return nil
	}
	enc, err := s.cipher.Encrypt(entry.Reflection)
	if err != nil {
		return err
	}
	entry.Reflection = enc
	return nil
}

// DecryptEntry decrypts sensitive journal fields after retrieving from DB.
func (s *EncryptionService) DecryptEntry(entry *models.JournalEntry) error {
	if s == nil {
		return nil
	}
	dec, err := s.cipher.Decrypt(entry.Reflection)
	if err != nil {
		return err
	}
	entry.Reflection = dec
	return nil
}
