package photostore

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLocal_PutGetDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key, err := store.Put(ctx, "507f1f77bcf86cd799439011", "racer.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key, "507f1f77bcf86cd799439011/") {
		t.Errorf("key not scoped to kid: %q", key)
	}
	if !strings.HasSuffix(key, "_racer.jpg") {
		t.Errorf("key lost original filename: %q", key)
	}

	rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "jpeg bytes" {
		t.Errorf("round trip content mismatch: %q", body)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Errorf("Exists=%v err=%v, want true", ok, err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	ok, err = store.Exists(ctx, key)
	if err != nil || ok {
		t.Errorf("photo still exists after delete")
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestLocal_RejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, key := range []string{"../outside", "/etc/passwd", "a/../../b"} {
		if _, err := store.Get(ctx, key); err == nil {
			t.Errorf("key %q accepted", key)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"racer.jpg", "racer.jpg"},
		{"my photo (1).png", "my_photo__1_.png"},
		{"../../evil.sh", ".._.._evil.sh"},
		{"", "photo"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildKey_Unique(t *testing.T) {
	now := time.Now()
	a := buildKey("kid", "p.jpg", now)
	b := buildKey("kid", "p.jpg", now)
	if a == b {
		t.Error("two uploads of the same file collided")
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, err := NewTokenCodec([]byte(strings.Repeat("h", 32)), nil, 3600)
	if err != nil {
		t.Fatal(err)
	}

	tok, err := codec.Issue("kid/2026/08/abc_racer.jpg", "507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatal(err)
	}

	key, userID, err := codec.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if key != "kid/2026/08/abc_racer.jpg" || userID != "507f1f77bcf86cd799439011" {
		t.Errorf("claims mismatch: key=%q user=%q", key, userID)
	}
}

func TestTokenCodec_RejectsTampering(t *testing.T) {
	codec, err := NewTokenCodec([]byte(strings.Repeat("h", 32)), nil, 3600)
	if err != nil {
		t.Fatal(err)
	}
	tok, _ := codec.Issue("some/key", "user")
	if _, _, err := codec.Verify(tok + "x"); err == nil {
		t.Error("tampered token accepted")
	}
	if _, _, err := codec.Verify("garbage"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestNewTokenCodec_ShortKey(t *testing.T) {
	if _, err := NewTokenCodec([]byte("short"), nil, 0); err == nil {
		t.Error("short hash key accepted")
	}
}
