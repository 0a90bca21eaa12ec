package pdf

import (
	"slices"
	"testing"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected Order
		wantErr  bool
	}{
		{"empty is identity", "", 3, Order{0, 1, 2}, false},
		{"permutation", "2,0,1", 3, Order{2, 0, 1}, false},
		{"spaces", " 1 , 0 ", 2, Order{1, 0}, false},
		{"too short", "0,1", 3, nil, true},
		{"out of range", "0,3,1", 3, nil, true},
		{"repeated", "0,0,1", 3, nil, true},
		{"not a number", "0,x,1", 3, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrder(tt.input, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrder(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !slices.Equal(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestOrderMoves(t *testing.T) {
	o := NewOrder(4)

	if !o.MoveUp(2) || o.String() != "0,2,1,3" {
		t.Errorf("MoveUp(2): got %s", o)
	}
	if o.MoveUp(0) {
		t.Error("Expected MoveUp(0) to be a no-op")
	}
	if !o.MoveDown(0) || o.String() != "2,0,1,3" {
		t.Errorf("MoveDown(0): got %s", o)
	}
	if o.MoveDown(3) {
		t.Error("Expected MoveDown on the last entry to be a no-op")
	}
	if !o.MoveTo(3, 0) || o.String() != "3,2,0,1" {
		t.Errorf("MoveTo(3, 0): got %s", o)
	}
	if !o.MoveTo(0, 2) || o.String() != "2,0,3,1" {
		t.Errorf("MoveTo(0, 2): got %s", o)
	}
	if o.MoveTo(0, 9) {
		t.Error("Expected out of range MoveTo to fail")
	}
}

func TestOrderApply(t *testing.T) {
	files := []string{"a.pdf", "b.pdf", "c.pdf"}
	got := Apply(Order{2, 0, 1}, files)
	expected := []string{"c.pdf", "a.pdf", "b.pdf"}
	if !slices.Equal(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if !NewOrder(3).IsIdentity() || (Order{1, 0}).IsIdentity() {
		t.Error("IsIdentity returned the wrong answer")
	}
}
