package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plain password")
	}

	if !CheckPassword(hash, "correct horse battery") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
}
