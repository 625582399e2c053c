package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory      = 64 * 1024
	argonIterations  = 3
	argonParallelism = 4
	argonSaltLen     = 16
	argonKeyLen      = 32
)

// HashPassword returns a PHC-style argon2id string:
// $argon2id$v=19$m=65536,t=3,p=4$<salt_b64>$<digest_b64>
// The string carries its own parameters and salt, so verification needs
// nothing beyond the string itself.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	digest := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLen)

	enc := base64.RawStdEncoding

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		enc.EncodeToString(salt), enc.EncodeToString(digest)), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// Malformed hash strings verify false instead of failing.
func VerifyPassword(password, encoded string) bool {
	memory, iterations, parallelism, salt, want, ok := parseHash(encoded)
	if !ok {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseHash(encoded string) (memory, iterations uint32, parallelism uint8, salt, digest []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return
	}

	if !strings.HasPrefix(parts[2], "v=") {
		return
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || version != argon2.Version {
		return
	}

	if n, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil || n != 3 {
		return
	}

	enc := base64.RawStdEncoding

	if salt, err = enc.DecodeString(parts[4]); err != nil || len(salt) == 0 {
		return
	}

	if digest, err = enc.DecodeString(parts[5]); err != nil || len(digest) == 0 {
		return
	}

	ok = true
	return
}
