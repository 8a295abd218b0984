package hash

import (
	"context"
	"math"
	"testing"
)

func TestEmbedIsDeterministic(t *testing.T) {
	e := NewEmbedder(64)
	a, err := e.Embed(context.Background(), "hôtesse : UBS bonjour, je vous écoute")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(context.Background(), "hôtesse : UBS bonjour, je vous écoute")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEmbedFixedDimension(t *testing.T) {
	e := NewEmbedder(64)
	if e.Dimension() != 64 {
		t.Fatalf("expected dimension 64, got %d", e.Dimension())
	}
	texts := []string{"bonjour", "je voudrais des informations sur un stage", "a"}
	for _, text := range texts {
		vec, err := e.Embed(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(vec) != 64 {
			t.Errorf("Embed(%q) has dimension %d", text, len(vec))
		}
	}
}

func TestEmbedIsNormalized(t *testing.T) {
	e := NewEmbedder(128)
	vec, err := e.Embed(context.Background(), "nous transférons vers le service formation")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(sum))
	}
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	e := NewEmbedder(64)
	if _, err := e.Embed(context.Background(), ""); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestEmbedDistinguishesTexts(t *testing.T) {
	e := NewEmbedder(128)
	a, _ := e.Embed(context.Background(), "bonjour je vous écoute")
	b, _ := e.Embed(context.Background(), "le service formation est fermé")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should not embed identically")
	}
}
