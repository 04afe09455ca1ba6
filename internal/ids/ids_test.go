package ids

import "testing"

func TestAllocatorStartsAtSeed(t *testing.T) {
	tests := []struct {
		name string
		seed ID
	}{
		{"zero", 0},
		{"non-zero", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(tt.seed)
			if got := a.Peek(); got != tt.seed {
				t.Errorf("Peek() = %d, want %d", got, tt.seed)
			}
			for i := ID(0); i < 3; i++ {
				if got := a.Next(); got != tt.seed+i {
					t.Errorf("Next() #%d = %d, want %d", i, got, tt.seed+i)
				}
			}
		})
	}
}

func TestAllocatorsAreIndependent(t *testing.T) {
	collections := NewAllocator(0)
	tasks := NewAllocator(0)

	collections.Next()
	collections.Next()

	if got := tasks.Next(); got != 0 {
		t.Errorf("tasks.Next() = %d, want 0", got)
	}
	if got := collections.Next(); got != 2 {
		t.Errorf("collections.Next() = %d, want 2", got)
	}
}
