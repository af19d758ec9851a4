package seal

import (
	"crypto/sha3"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// #region constants

const (
	// TokenPrefix tags sealed tokens.
	TokenPrefix = "encrypted:"
	// SignaturePrefix tags detached signatures.
	SignaturePrefix = "signed:"
)

// ErrInvalidToken is returned for tokens that fail shape validation:
// missing prefix, undecodable hex, or a non-text payload.
var ErrInvalidToken = errors.New("invalid sealed token")

// #endregion constants

// #region sealer

// Sealer produces keyed one-way digests over request content. The key is
// derived once from the seed and never changes for the life of the Sealer.
type Sealer struct {
	key []byte
}

// NewSealer derives the pipeline key from seed via SHA3-512.
func NewSealer(seed string) *Sealer {
	key := sha3.Sum512([]byte(seed))
	return &Sealer{key: key[:]}
}

// #endregion sealer

// #region seal

// Seal returns "encrypted:" + hex(SHA3-256(content ++ key)). Deterministic
// for a fixed key; the output cannot be inverted.
func (s *Sealer) Seal(content string) string {
	buf := make([]byte, 0, len(content)+len(s.key))
	buf = append(buf, content...)
	buf = append(buf, s.key...)
	sum := sha3.Sum256(buf)
	return TokenPrefix + hex.EncodeToString(sum[:])
}

// Unseal validates token shape and returns the decoded payload.
//
// The seal digest is one-way, so a token produced by Seal can never be
// unsealed back to its content: the decoded bytes are raw digest output and
// fail the text check. Only malformed-token rejection is defined behavior;
// the operation is kept because the service surface offers it.
func (s *Sealer) Unseal(token string) (string, error) {
	payload, ok := strings.CutPrefix(token, TokenPrefix)
	if !ok {
		return "", fmt.Errorf("%w: missing %q prefix", ErrInvalidToken, TokenPrefix)
	}
	decoded, err := hex.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !printableText(decoded) {
		return "", fmt.Errorf("%w: payload is not text", ErrInvalidToken)
	}
	return string(decoded), nil
}

// #endregion seal

// #region sign

// Sign returns "signed:" + hex(SHA3-512(content)). The signing digest is
// unkeyed; authenticity rests on the verifier's dual check, not secrecy.
func (s *Sealer) Sign(content string) string {
	sum := sha3.Sum512([]byte(content))
	return SignaturePrefix + hex.EncodeToString(sum[:])
}

// DigestMatches recomputes the expected signature for content and compares.
// Callers must additionally apply the disallowed-content check; digest
// equality alone does not make a signature valid.
func (s *Sealer) DigestMatches(content, signature string) bool {
	payload, ok := strings.CutPrefix(signature, SignaturePrefix)
	if !ok {
		return false
	}
	sum := sha3.Sum512([]byte(content))
	return hex.EncodeToString(sum[:]) == payload
}

// #endregion sign

// #region content-key

// ContentKey returns a keyed content digest in bare hex, used as the
// seen-before key for settlement rows.
func (s *Sealer) ContentKey(content string) string {
	buf := make([]byte, 0, len(content)+len(s.key))
	buf = append(buf, content...)
	buf = append(buf, s.key...)
	sum := sha3.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// #endregion content-key

// #region helpers

func printableText(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// #endregion helpers
