package security

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

var (
	errInvalidHashFormat = errors.New("pbkdf2: invalid encoded hash format")
	errInvalidConfig     = errors.New("pbkdf2: invalid configuration")
)

// PBKDF2Config defines tunable parameters for PBKDF2 password hashing.
type PBKDF2Config struct {
	Algorithm  string
	Iterations int
	SaltLength int
	KeyLength  int
}

var (
	defaultPBKDF2Config = PBKDF2Config{
		Algorithm:  "sha256",
		Iterations: 1000,
		SaltLength: 24,
		KeyLength:  24,
	}

	activePBKDF2Config = defaultPBKDF2Config
	pbkdf2ConfigMu     sync.RWMutex
)

// DefaultPBKDF2Config returns the library default PBKDF2 configuration.
func DefaultPBKDF2Config() PBKDF2Config {
	return defaultPBKDF2Config
}

// CurrentPBKDF2Config returns the currently active PBKDF2 configuration.
func CurrentPBKDF2Config() PBKDF2Config {
	pbkdf2ConfigMu.RLock()
	defer pbkdf2ConfigMu.RUnlock()
	return activePBKDF2Config
}

// ConfigurePBKDF2 sets the active PBKDF2 configuration after validation.
func ConfigurePBKDF2(cfg PBKDF2Config) error {
	if err := validatePBKDF2Config(cfg); err != nil {
		return err
	}

	pbkdf2ConfigMu.Lock()
	activePBKDF2Config = cfg
	pbkdf2ConfigMu.Unlock()
	return nil
}

func validatePBKDF2Config(cfg PBKDF2Config) error {
	if hashFactory(cfg.Algorithm) == nil {
		return fmt.Errorf("%w: unsupported algorithm %q", errInvalidConfig, cfg.Algorithm)
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be greater than zero", errInvalidConfig)
	}
	if cfg.SaltLength < 8 {
		return fmt.Errorf("%w: salt length must be at least 8 bytes", errInvalidConfig)
	}
	if cfg.KeyLength < 16 {
		return fmt.Errorf("%w: key length must be at least 16 bytes", errInvalidConfig)
	}
	return nil
}

func hashFactory(algorithm string) func() hash.Hash {
	switch algorithm {
	case "sha1":
		return sha1.New
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	default:
		return nil
	}
}

// HashPassword generates a PBKDF2 hash for the provided password.
// The returned value embeds the algorithm, iteration count, salt, and derived
// key in the form algorithm:iterations:salt:derivedKey.
func HashPassword(password string) (string, error) {
	cfg := CurrentPBKDF2Config()

	salt := make([]byte, cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("pbkdf2: generate salt: %w", err)
	}

	// The base64 form of the salt both goes into the record and feeds the
	// KDF, so a stored record can always be re-derived from its own fields.
	encodedSalt := base64.StdEncoding.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(encodedSalt), cfg.Iterations, cfg.KeyLength, hashFactory(cfg.Algorithm))

	encoded := strings.Join([]string{
		cfg.Algorithm,
		strconv.Itoa(cfg.Iterations),
		encodedSalt,
		base64.StdEncoding.EncodeToString(key),
	}, ":")

	return encoded, nil
}

// VerifyPassword compares the provided password against the stored PBKDF2
// record. Malformed or unparseable records verify as false rather than
// erroring, so a corrupted row behaves like a wrong password.
func VerifyPassword(password, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}

	algorithm, iterations, encodedSalt, expected, err := decodePBKDF2Hash(encoded)
	if err != nil {
		return false
	}

	computed := pbkdf2.Key([]byte(password), []byte(encodedSalt), iterations, len(expected), hashFactory(algorithm))
	return SlowEquals(expected, computed)
}

func decodePBKDF2Hash(encoded string) (string, int, string, []byte, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != 4 {
		return "", 0, "", nil, errInvalidHashFormat
	}

	if hashFactory(parts[0]) == nil {
		return "", 0, "", nil, fmt.Errorf("pbkdf2: unsupported algorithm %q", parts[0])
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return "", 0, "", nil, errInvalidHashFormat
	}

	key, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return "", 0, "", nil, fmt.Errorf("pbkdf2: decode key: %w", err)
	}
	if len(key) == 0 {
		return "", 0, "", nil, errInvalidHashFormat
	}

	return parts[0], iterations, parts[2], key, nil
}
