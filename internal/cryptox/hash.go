package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Scheme names a password hashing scheme.
type Scheme string

const (
	SchemeSHA256   Scheme = "sha256"
	SchemeArgon2id Scheme = "argon2id"
	SchemeBcrypt   Scheme = "bcrypt"
)

// DefaultScheme keeps hashes readable by existing journal databases.
const DefaultScheme = SchemeSHA256

// Argon2id parameters.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// Hasher turns a plaintext password into its stored representation.
type Hasher interface {
	Scheme() Scheme
	Hash(password string) (string, error)
}

// ParseScheme maps a configuration value to a Scheme. An empty string yields
// DefaultScheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultScheme, nil
	case SchemeSHA256:
		return SchemeSHA256, nil
	case SchemeArgon2id:
		return SchemeArgon2id, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnsupportedScheme, s)
}

// NewHasher returns the Hasher for scheme.
func NewHasher(scheme Scheme) (Hasher, error) {
	switch scheme {
	case SchemeSHA256:
		return sha256Hasher{}, nil
	case SchemeArgon2id:
		return argon2Hasher{}, nil
	case SchemeBcrypt:
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedScheme, scheme)
}

// Identify reports which scheme produced encoded.
func Identify(encoded string) Scheme {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return SchemeArgon2id
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return SchemeBcrypt
	}
	return SchemeSHA256
}

// Verify reports whether password matches the stored hash encoded.
// A malformed hash never verifies.
func Verify(password, encoded string) bool {
	if encoded == "" {
		return false
	}
	switch Identify(encoded) {
	case SchemeArgon2id:
		return verifyArgon2id(password, encoded)
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(legacyDigest(password)), []byte(encoded)) == 1
}

type sha256Hasher struct{}

func (sha256Hasher) Scheme() Scheme { return SchemeSHA256 }

func (sha256Hasher) Hash(password string) (string, error) {
	return legacyDigest(password), nil
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

type argon2Hasher struct{}

func (argon2Hasher) Scheme() Scheme { return SchemeArgon2id }

func (argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(argonSaltLen)
	key := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// DeriveKey stretches password with salt using the package Argon2id
// parameters.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parseArgon2id(encoded string) (*argon2Params, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, common.ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, common.ErrMalformedHash
	}

	p := &argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, common.ErrMalformedHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, common.ErrMalformedHash
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return nil, common.ErrMalformedHash
	}
	return p, nil
}

func verifyArgon2id(password, encoded string) bool {
	p, err := parseArgon2id(encoded)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, p.key) == 1
}

type bcryptHasher struct {
	cost int
}

func (bcryptHasher) Scheme() Scheme { return SchemeBcrypt }

func (h bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}
