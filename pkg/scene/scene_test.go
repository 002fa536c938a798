package scene

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/circlepack/pkg/geom"
	"github.com/matzehuels/circlepack/pkg/pack"
)

func packedScene(t *testing.T) Scene {
	t.Helper()

	p, err := pack.New(geom.Pt(0, 0), pack.Options{Count: 5, MinRadius: 1, MaxRadius: 2, Seed: 42})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := pack.NewRunner(nil).Run(context.Background(), p, pack.RunOptions{
		Algorithm:  pack.AlgorithmFast,
		Iterations: 2000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	return FromPacker(p, Params{
		Count:     5,
		MinRadius: 1,
		MaxRadius: 2,
		Algorithm: pack.AlgorithmFast.String(),
		Seed:      42,
	}, result)
}

func TestFromPacker(t *testing.T) {
	s := packedScene(t)

	if s.ID == "" {
		t.Error("scene should get a fresh ID")
	}
	if s.CreatedAt.IsZero() {
		t.Error("scene should record a creation time")
	}
	if len(s.Circles) != 5 {
		t.Fatalf("circle count = %d, want 5", len(s.Circles))
	}
	for i, c := range s.Circles {
		if c.Radius < 1 || c.Radius > 2 {
			t.Errorf("circle %d radius %g outside [1, 2]", i, c.Radius)
		}
		if !s.Bounds.Contains(geom.Pt(c.X, c.Y)) {
			t.Errorf("circle %d center outside scene bounds", i)
		}
	}
	if s.Iterations < 1 {
		t.Error("scene should record the iteration count")
	}
}

func TestRoundTrip(t *testing.T) {
	s := packedScene(t)

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Read is the io.Reader flavor of Unmarshal.
	got, err = Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("invalid JSON should fail")
	}
}
