package entity

import "testing"

func TestNewLabelSet(t *testing.T) {
	t.Parallel()

	s := NewLabelSet([]Label{
		{Name: "Dog", Confidence: 90},
		{Name: "Animal", Confidence: 85},
		{Name: "Dog", Confidence: 70},
	})

	if s.Len() != 2 {
		t.Fatalf("expected 2 unique names, got %d", s.Len())
	}
	if !s.Contains("Dog") || !s.Contains("Animal") {
		t.Errorf("expected set to contain Dog and Animal, got %v", s)
	}
	if s.Contains("dog") {
		t.Error("names must be compared case-sensitively")
	}
}

func TestLabelSet_IntersectionSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     []string
		expected int
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []string{"Dog"}, nil, 0},
		{"disjoint", []string{"Dog"}, []string{"Cat"}, 0},
		{"partial", []string{"Dog", "Animal", "Pet"}, []string{"Dog", "Animal"}, 2},
		{"identical", []string{"Bag", "Leather"}, []string{"Leather", "Bag"}, 2},
		{"case differs", []string{"Dog"}, []string{"DOG"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, b := setOf(tt.a...), setOf(tt.b...)
			if got := a.IntersectionSize(b); got != tt.expected {
				t.Errorf("a∩b = %d, expected %d", got, tt.expected)
			}
			if got := b.IntersectionSize(a); got != tt.expected {
				t.Errorf("b∩a = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func setOf(names ...string) LabelSet {
	labels := make([]Label, 0, len(names))
	for _, n := range names {
		labels = append(labels, Label{Name: n})
	}
	return NewLabelSet(labels)
}
