package catalog

import "testing"

func TestCatalogSize(t *testing.T) {
	if Size() != 34 {
		t.Errorf("Size() = %d, want 34", Size())
	}
}

func TestCatalogOrderAndIDs(t *testing.T) {
	all := All()
	seen := make(map[int]bool)
	for i, v := range all {
		if v.Text == "" {
			t.Errorf("verse at index %d has empty text", i)
		}
		if seen[v.ID] {
			t.Errorf("duplicate verse id %d", v.ID)
		}
		seen[v.ID] = true
	}
}

func TestGet(t *testing.T) {
	v, ok := Get(1)
	if !ok {
		t.Fatal("Get(1) not found")
	}
	if v.ID != 1 {
		t.Errorf("Get(1).ID = %d", v.ID)
	}

	if _, ok := Get(999); ok {
		t.Error("Get(999) should not be found")
	}
}

func TestAt(t *testing.T) {
	v, ok := At(0)
	if !ok {
		t.Fatal("At(0) not found")
	}
	if v.ID != All()[0].ID {
		t.Errorf("At(0).ID = %d, want %d", v.ID, All()[0].ID)
	}

	if _, ok := At(-1); ok {
		t.Error("At(-1) should not be found")
	}
	if _, ok := At(Size()); ok {
		t.Error("At(Size()) should not be found")
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"empty catalog", `[]`},
		{"empty text", `[{"id":1,"text":"","translation":"x"}]`},
		{"duplicate id", `[{"id":1,"text":"a","translation":""},{"id":1,"text":"b","translation":""}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := load([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
