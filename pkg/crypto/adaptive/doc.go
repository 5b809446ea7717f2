// Package adaptive seals byte slices with an AEAD cipher chosen for the host.
//
// AES-256-GCM is used where the platform has hardware AES, otherwise
// ChaCha20-Poly1305. The nonce is generated per call and prepended to the
// ciphertext, so a sealed blob is self-contained.
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, aad)
//	plaintext, err := c.Decrypt(sealed, aad)
package adaptive
