package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters follow the package's current interactive-use
// recommendation.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// keySalt is a domain constant, not a secret, so a passphrase always
// derives the same key. The key protects a single local credential, not a
// password database.
var keySalt = []byte("golfbook.credential.v1")

type AEAD struct{ aead cipher.AEAD }

// New builds an AES-GCM AEAD from a 16/24/32-byte key.
func New(key []byte) (*AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	a, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AEAD{aead: a}, nil
}

// NewFromPassphrase derives a 32-byte key from a passphrase via scrypt and
// builds the AEAD with it.
func NewFromPassphrase(passphrase string) (*AEAD, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty passphrase")
	}
	key, err := scrypt.Key([]byte(passphrase), keySalt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, err
	}
	return New(key)
}

func (a *AEAD) EncryptToString(plaintext string) (string, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := a.aead.Seal(nil, nonce, []byte(plaintext), nil)
	buf := append(nonce, ct...)
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

func (a *AEAD) DecryptString(ciphertextB64 string) (string, error) {
	buf, err := base64.RawStdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", err
	}
	ns := a.aead.NonceSize()
	if len(buf) < ns {
		return "", fmt.Errorf("ciphertext too short")
	}
	pt, err := a.aead.Open(nil, buf[:ns], buf[ns:], nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
