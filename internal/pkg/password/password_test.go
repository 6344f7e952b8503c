package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost
	t.Cleanup(func() { Cost = DefaultCost })

	hash, err := Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if !Verify("correct horse", hash) {
		t.Error("Verify rejected the right password")
	}
	if Verify("wrong horse", hash) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	a, b := HashToken("abc"), HashToken("abc")
	if a != b || len(a) != 64 {
		t.Errorf("HashToken = %q, %q", a, b)
	}
	if HashToken("abd") == a {
		t.Error("different tokens hash equal")
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short") {
		t.Error("accepted a 5 character password")
	}
	if !ValidatePassword("longenough") {
		t.Error("rejected a 10 character password")
	}
}

func TestPasswordUpperBound(t *testing.T) {
	long := string(make([]byte, MaxLength+1))
	if ValidatePassword(long) {
		t.Error("accepted a password bcrypt cannot hash")
	}
	if _, err := Hash(long); err != ErrTooLong {
		t.Errorf("Hash err = %v, want ErrTooLong", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	Cost = bcrypt.MinCost
	hash, err := Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash reported stale")
	}

	Cost = bcrypt.MinCost + 1
	t.Cleanup(func() { Cost = DefaultCost })
	if !NeedsRehash(hash) {
		t.Error("cheaper hash not reported stale")
	}
	if NeedsRehash("not-a-hash") {
		t.Error("garbage reported stale")
	}
}
