package render

import "testing"

func TestAttributeStreamBindAndRead(t *testing.T) {
	s := NewAttributeStream()
	s.Bind(3, []float32{1, 2, 3})
	s.Bind(2, []float32{4, 5})

	if got := s.GetTotalCount(); got != 2 {
		t.Fatalf("GetTotalCount() = %d, want 2", got)
	}
	if got := s.GetLocationSize(0); got != 3 {
		t.Fatalf("GetLocationSize(0) = %d, want 3", got)
	}
	if got := s.TotalWidth(); got != 5 {
		t.Fatalf("TotalWidth() = %d, want 5", got)
	}
	want := []float32{1, 2, 3, 4, 5}
	for i, w := range want {
		if got := s.GetRawValue(i); got != w {
			t.Fatalf("GetRawValue(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestAttributeStreamBindNilZeroes(t *testing.T) {
	s := NewAttributeStream()
	s.Bind(3, nil)
	for i := 0; i < 3; i++ {
		if got := s.GetRawValue(i); got != 0 {
			t.Fatalf("GetRawValue(%d) = %v, want 0", i, got)
		}
	}
}

func TestAttributeStreamClearResetsSchema(t *testing.T) {
	s := NewAttributeStream()
	s.Bind(3, []float32{1, 2, 3})
	s.Clear()
	if got := s.GetTotalCount(); got != 0 {
		t.Fatalf("GetTotalCount() after Clear = %d, want 0", got)
	}
	if got := s.TotalWidth(); got != 0 {
		t.Fatalf("TotalWidth() after Clear = %d, want 0", got)
	}
}

func TestAttributeStreamSameSchema(t *testing.T) {
	a := NewAttributeStream()
	a.Bind(3, nil)
	a.Bind(2, nil)

	b := NewAttributeStream()
	b.Bind(3, nil)
	b.Bind(2, nil)

	if !a.SameSchema(b) {
		t.Fatal("identical bind sequences should report the same schema")
	}

	c := NewAttributeStream()
	c.Bind(3, nil)
	c.Bind(1, nil)

	if a.SameSchema(c) {
		t.Fatal("differing location widths must not report the same schema")
	}
}

func TestAttributeStreamSetRawValue(t *testing.T) {
	s := NewAttributeStream()
	s.Bind(1, []float32{0})
	s.SetRawValue(0, 42)
	if got := s.GetRawValue(0); got != 42 {
		t.Fatalf("GetRawValue(0) = %v, want 42", got)
	}
}
