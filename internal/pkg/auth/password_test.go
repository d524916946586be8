package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword(hash, "admin123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("not-a-bcrypt-hash", "admin123") {
		t.Error("malformed hash accepted")
	}
}
