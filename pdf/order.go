package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Order is a permutation of input file indexes, the terminal stand-in for
// drag-reordering a file list. Position i holds the original index of the
// file that goes i-th.
type Order []int

// NewOrder returns the identity order for n files
func NewOrder(n int) Order {
	o := make(Order, n)
	for i := range o {
		o[i] = i
	}
	return o
}

// ParseOrder reads a comma-separated list of original indexes and checks
// that it is a permutation of 0..n-1
func ParseOrder(s string, n int) (Order, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewOrder(n), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("order lists %d positions, expected %d", len(parts), n)
	}

	seen := make([]bool, n)
	o := make(Order, n)
	for i, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid order index %q: %w", p, err)
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("order index %d out of range 0..%d", idx, n-1)
		}
		if seen[idx] {
			return nil, fmt.Errorf("order index %d repeated", idx)
		}
		seen[idx] = true
		o[i] = idx
	}
	return o, nil
}

// MoveUp swaps position i with the one before it
func (o Order) MoveUp(i int) bool {
	if i <= 0 || i >= len(o) {
		return false
	}
	o[i-1], o[i] = o[i], o[i-1]
	return true
}

// MoveDown swaps position i with the one after it
func (o Order) MoveDown(i int) bool {
	if i < 0 || i >= len(o)-1 {
		return false
	}
	o[i], o[i+1] = o[i+1], o[i]
	return true
}

// MoveTo moves the entry at position from to position to, shifting the rest
func (o Order) MoveTo(from, to int) bool {
	if from < 0 || from >= len(o) || to < 0 || to >= len(o) {
		return false
	}
	v := o[from]
	if from < to {
		copy(o[from:to], o[from+1:to+1])
	} else {
		copy(o[to+1:from+1], o[to:from])
	}
	o[to] = v
	return true
}

// IsIdentity reports whether the order leaves files as given
func (o Order) IsIdentity() bool {
	for i, v := range o {
		if i != v {
			return false
		}
	}
	return true
}

// Apply returns items rearranged by the order
func Apply[T any](o Order, items []T) []T {
	out := make([]T, len(o))
	for i, idx := range o {
		out[i] = items[idx]
	}
	return out
}

// String renders the order as the server's comma-separated form field
func (o Order) String() string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
