package pagecache

import (
	"testing"

	"github.com/gofiber/storage/memory/v2"
)

func TestDisabledWithoutStore(t *testing.T) {
	Init(nil)

	Set("/blog/demo", []byte("body"))

	if got := Get("/blog/demo"); got != nil {
		t.Errorf("Get() = %q with nil store, want nil", got)
	}

	// must not panic
	Invalidate("/blog/demo")
}

func TestSetGetInvalidate(t *testing.T) {
	Init(memory.New())
	t.Cleanup(func() { Init(nil) })

	if got := Get("/blog/demo"); got != nil {
		t.Fatalf("Get() on empty cache = %q, want nil", got)
	}

	Set("/blog/demo", []byte("rendered page"))

	if got := string(Get("/blog/demo")); got != "rendered page" {
		t.Fatalf("Get() = %q, want the stored body", got)
	}

	// stored copy must not alias the caller's slice
	body := []byte("original")
	Set("/dashboard:user-1", body)
	body[0] = 'X'

	if got := string(Get("/dashboard:user-1")); got != "original" {
		t.Errorf("Get() = %q, stored body must be a copy", got)
	}

	Invalidate("/blog/demo", "/dashboard:user-1")

	if got := Get("/blog/demo"); got != nil {
		t.Errorf("Get() after Invalidate = %q, want nil", got)
	}

	if got := Get("/dashboard:user-1"); got != nil {
		t.Errorf("Get() after Invalidate = %q, want nil", got)
	}
}

func TestEmptyBodyNotStored(t *testing.T) {
	Init(memory.New())
	t.Cleanup(func() { Init(nil) })

	Set("/blog/demo", nil)

	if got := Get("/blog/demo"); got != nil {
		t.Errorf("Get() = %q, empty bodies must not be cached", got)
	}
}
