package dao

import (
	"regexp"
	"testing"
)

func TestNewSessionIDShape(t *testing.T) {
	d := &ChatMessageDAO{}
	re := regexp.MustCompile(`^session_\d+_[0-9a-f]{8}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := d.NewSessionID()
		if !re.MatchString(id) {
			t.Fatalf("unexpected session token shape: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate session token: %q", id)
		}
		seen[id] = true
	}
}
