package idgen

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestV7_Generate(t *testing.T) {
	t.Run("generates valid UUID v7", func(t *testing.T) {
		gen := NewV7()

		id, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if id == uuid.Nil {
			t.Fatal("generated UUID is nil")
		}
		if id.Version() != 7 {
			t.Fatalf("UUID version = %d, want 7", id.Version())
		}
	})

	t.Run("ids are time ordered", func(t *testing.T) {
		gen := NewV7()

		prev, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		for range 50 {
			id, err := gen.Generate()
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if id.String() <= prev.String() {
				t.Fatalf("expected %s to sort after %s", id, prev)
			}
			prev = id
		}
	})
}

func TestV7_Retries(t *testing.T) {
	sourceErr := errors.New("entropy exhausted")

	t.Run("recovers on retry", func(t *testing.T) {
		calls := 0
		want := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")
		gen := NewV7(withSource(func() (uuid.UUID, error) {
			calls++
			if calls == 1 {
				return uuid.Nil, sourceErr
			}
			return want, nil
		}))

		id, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if id != want {
			t.Errorf("Generate() = %s, want %s", id, want)
		}
		if calls != 2 {
			t.Errorf("source called %d times, want 2", calls)
		}
	})

	t.Run("gives up after configured attempts", func(t *testing.T) {
		calls := 0
		gen := NewV7(WithRetries(2), withSource(func() (uuid.UUID, error) {
			calls++
			return uuid.Nil, sourceErr
		}))

		_, err := gen.Generate()
		if !errors.Is(err, sourceErr) {
			t.Fatalf("expected wrapped source error, got %v", err)
		}
		if calls != 3 {
			t.Errorf("source called %d times, want 3", calls)
		}
	})

	t.Run("negative retries are ignored", func(t *testing.T) {
		calls := 0
		gen := NewV7(WithRetries(-5), withSource(func() (uuid.UUID, error) {
			calls++
			return uuid.Nil, sourceErr
		}))

		_, _ = gen.Generate()
		if calls != 2 {
			t.Errorf("source called %d times, want default of 2", calls)
		}
	})
}

func TestFunc(t *testing.T) {
	want := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")
	var gen Generator = Func(func() (uuid.UUID, error) { return want, nil })

	id, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if id != want {
		t.Errorf("Generate() = %s, want %s", id, want)
	}
}
