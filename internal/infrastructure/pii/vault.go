// Package pii cifra datos personales sensibles (SSN/ITIN) con NaCl secretbox.
package pii

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
)

const nonceSize = 24

var _ ports.SecretVault = (*Vault)(nil)

// Vault cifra con XSalsa20-Poly1305. Formato: base64(nonce || box).
type Vault struct {
	key [32]byte
}

// NewVault recibe la clave en hex (64 caracteres).
func NewVault(hexKey string) (*Vault, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("pii: clave no es hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("pii: la clave debe tener 32 bytes, tiene %d", len(raw))
	}
	v := &Vault{}
	copy(v.key[:], raw)
	return v, nil
}

// NewEphemeralVault genera una clave aleatoria. Solo para development: lo cifrado
// no se puede leer tras reiniciar.
func NewEphemeralVault() (*Vault, error) {
	v := &Vault{}
	if _, err := io.ReadFull(rand.Reader, v.key[:]); err != nil {
		return nil, fmt.Errorf("pii: generar clave: %w", err)
	}
	return v, nil
}

func (v *Vault) Encrypt(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("pii: nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &v.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (v *Vault) Decrypt(cipher string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cipher)
	if err != nil {
		return "", fmt.Errorf("pii: base64: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", errors.New("pii: texto cifrado demasiado corto")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &v.key)
	if !ok {
		return "", errors.New("pii: no se pudo descifrar")
	}
	return string(plain), nil
}
