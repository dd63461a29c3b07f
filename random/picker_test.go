package random

import (
	"errors"
	"slices"
	"testing"
)

func TestPickMembership(t *testing.T) {
	p := New(42)
	items := []string{"cy1", "cy2", "zh"}

	for i := 0; i < 200; i++ {
		got, err := Pick(p, items)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Contains(items, got) {
			t.Fatalf("Pick returned %q, not a candidate", got)
		}
	}

	_, err := Pick(p, []string{})
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Pick(empty) error = %v, want ErrEmpty", err)
	}
}

func TestPickUniform(t *testing.T) {
	p := New(7)
	items := []int{0, 1, 2, 3}
	const draws = 40000

	counts := make([]int, len(items))
	for i := 0; i < draws; i++ {
		v, _ := Pick(p, items)
		counts[v]++
	}

	expected := draws / len(items)
	for i, c := range counts {
		// 5% tolerance is far outside the binomial noise at this size
		if c < expected*95/100 || c > expected*105/100 {
			t.Errorf("item %d picked %d times, expected about %d", i, c, expected)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	p := New(1)
	items := []string{"a", "b", "c", "d", "e", "f"}

	shuffled := Shuffle(p, items)
	if len(shuffled) != len(items) {
		t.Fatalf("len = %d", len(shuffled))
	}

	sorted := slices.Clone(shuffled)
	slices.Sort(sorted)
	if !slices.Equal(sorted, items) {
		t.Errorf("Shuffle lost or duplicated elements: %v", shuffled)
	}
	if !slices.Equal(items, []string{"a", "b", "c", "d", "e", "f"}) {
		t.Error("Shuffle modified its input")
	}
}

func TestSeededReproducible(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	a := Shuffle(New(99), items)
	b := Shuffle(New(99), items)
	if !slices.Equal(a, b) {
		t.Errorf("same seed gave different shuffles: %v vs %v", a, b)
	}
	if New(99).Seed() != 99 {
		t.Error("Seed() mismatch")
	}
}

func TestNewFromEntropy(t *testing.T) {
	p, err := NewFromEntropy()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Pick(p, []int{1}); err != nil {
		t.Fatal(err)
	}
}
