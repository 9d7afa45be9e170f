package ports

// SecretVault cifra datos sensibles (SSN/ITIN) antes de guardarlos.
type SecretVault interface {
	Encrypt(plain string) (string, error)
	Decrypt(cipher string) (string, error)
}
