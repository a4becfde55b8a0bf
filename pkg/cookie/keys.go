package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
)

// keys holds per-purpose material derived from the configured secret.
type keys struct {
	sign []byte
	aead cipher.AEAD
}

func deriveKeys(secret []byte) *keys {
	enc := derive(secret, "encrypt")
	block, err := aes.NewCipher(enc)
	if err != nil {
		// unreachable: derive always yields a 32-byte AES key
		panic(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return &keys{sign: derive(secret, "sign"), aead: aead}
}

func derive(secret []byte, purpose string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("cookie/" + purpose))
	return mac.Sum(nil)
}

func (k *keys) mac(name string, value []byte) []byte {
	mac := hmac.New(sha256.New, k.sign)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write(value)
	return mac.Sum(nil)
}
