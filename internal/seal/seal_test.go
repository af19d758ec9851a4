package seal

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestSealDeterministic(t *testing.T) {
	s := NewSealer("test-seed")
	a := s.Seal("stablecoin:USDC:100")
	b := s.Seal("stablecoin:USDC:100")
	if a != b {
		t.Fatalf("same content sealed to different tokens:\n%s\n%s", a, b)
	}
}

func TestSealDiffersByKey(t *testing.T) {
	a := NewSealer("seed-one").Seal("stablecoin:USDC:100")
	b := NewSealer("seed-two").Seal("stablecoin:USDC:100")
	if a == b {
		t.Fatal("different keys produced identical tokens")
	}
}

func TestSealTokenShape(t *testing.T) {
	token := NewSealer("test-seed").Seal("stablecoin-transfer")
	if !strings.HasPrefix(token, TokenPrefix) {
		t.Fatalf("token %q missing prefix", token)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(token, TokenPrefix))
	if err != nil {
		t.Fatalf("token payload not hex: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("seal digest length = %d, want 32", len(raw))
	}
}

func TestSignatureShape(t *testing.T) {
	sig := NewSealer("test-seed").Sign("stablecoin-transfer")
	if !strings.HasPrefix(sig, SignaturePrefix) {
		t.Fatalf("signature %q missing prefix", sig)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(sig, SignaturePrefix))
	if err != nil {
		t.Fatalf("signature payload not hex: %v", err)
	}
	if len(raw) != 64 {
		t.Fatalf("signature digest length = %d, want 64", len(raw))
	}
}

func TestDigestMatches(t *testing.T) {
	s := NewSealer("test-seed")
	sig := s.Sign("stablecoin:USDC:100")
	if !s.DigestMatches("stablecoin:USDC:100", sig) {
		t.Fatal("signature did not match its own content")
	}
	if s.DigestMatches("stablecoin:USDC:101", sig) {
		t.Fatal("signature matched different content")
	}
	if s.DigestMatches("stablecoin:USDC:100", "not-a-signature") {
		t.Fatal("matched a string without the signature prefix")
	}
}

func TestUnsealRejectsMalformedTokens(t *testing.T) {
	s := NewSealer("test-seed")
	cases := []string{
		"",
		"plain text",
		"signed:abcd",
		TokenPrefix + "zz-not-hex",
		TokenPrefix + "0001",          // decodes to control bytes
		TokenPrefix + "ff80",          // invalid utf8
	}
	for _, token := range cases {
		if _, err := s.Unseal(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Unseal(%q) err = %v, want ErrInvalidToken", token, err)
		}
	}
}

// A token produced by Seal is a one-way digest; unsealing it must never
// recover the original content.
func TestUnsealCannotInvertSeal(t *testing.T) {
	s := NewSealer("test-seed")
	content := "stablecoin:USDC:100"
	token := s.Seal(content)

	got, err := s.Unseal(token)
	if err == nil && got == content {
		t.Fatal("unseal round-tripped a one-way digest")
	}
}

func TestContentKeyStable(t *testing.T) {
	s := NewSealer("test-seed")
	if s.ContentKey("a") != s.ContentKey("a") {
		t.Fatal("content key not stable")
	}
	if s.ContentKey("a") == s.ContentKey("b") {
		t.Fatal("distinct content collided")
	}
	if _, err := hex.DecodeString(s.ContentKey("a")); err != nil {
		t.Fatalf("content key not hex: %v", err)
	}
}
