package singleflight

import (
	"context"
	"testing"
)

func TestMemoryGuardAdmitsFirstRejectsDuplicate(t *testing.T) {
	guard := NewMemory()
	ctx := context.Background()
	key := Key([]byte(`{"PatientAge":64}`))

	admitted, err := guard.Begin(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !admitted {
		t.Fatal("first submission must be admitted")
	}

	admitted, err = guard.Begin(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admitted {
		t.Fatal("duplicate in-flight submission must be rejected")
	}

	guard.End(ctx, key)

	admitted, _ = guard.Begin(ctx, key)
	if !admitted {
		t.Fatal("key must be reusable once the first call ends")
	}
}

func TestMemoryGuardDistinctKeysIndependent(t *testing.T) {
	guard := NewMemory()
	ctx := context.Background()

	a := Key([]byte(`{"PatientAge":64}`))
	b := Key([]byte(`{"PatientAge":65}`))
	if a == b {
		t.Fatal("distinct payloads must produce distinct keys")
	}

	if admitted, _ := guard.Begin(ctx, a); !admitted {
		t.Fatal("first key must be admitted")
	}
	if admitted, _ := guard.Begin(ctx, b); !admitted {
		t.Fatal("a different payload must not be blocked")
	}
}

func TestKeyIsStable(t *testing.T) {
	payload := []byte(`{"PatientAge":64,"LengthOfStay":7}`)
	if Key(payload) != Key(payload) {
		t.Fatal("identical payloads must produce the same key")
	}
}
