package crypto

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyToken(t *testing.T) {
	hash, err := HashToken("secret-api-token")
	if err != nil {
		t.Fatalf("HashToken() error: %v", err)
	}
	if hash == "secret-api-token" {
		t.Fatal("hash must not equal the token")
	}

	if err := VerifyToken("secret-api-token", hash); err != nil {
		t.Errorf("VerifyToken() error: %v", err)
	}
	if err := VerifyToken("wrong-token", hash); !errors.Is(err, ErrTokenMismatch) {
		t.Errorf("err = %v, want ErrTokenMismatch", err)
	}
}

func TestHashTokenEmpty(t *testing.T) {
	if _, err := HashToken(""); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("err = %v, want ErrEmptyToken", err)
	}
	if err := VerifyToken("", "some-hash"); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("err = %v, want ErrEmptyToken", err)
	}
}

func TestHashTokenTooLong(t *testing.T) {
	token := strings.Repeat("a", MaxTokenLength+1)
	if _, err := HashToken(token); !errors.Is(err, ErrTokenTooLong) {
		t.Errorf("err = %v, want ErrTokenTooLong", err)
	}
}
