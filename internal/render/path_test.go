package render

import (
	"encoding/json"
	"testing"
)

func TestRingPathStructure(t *testing.T) {
	p := RingPath("city/Springfield, IL", []float64{10, 50, 30}, []float64{10, 10, 40})

	if len(p.Commands) != 4 {
		t.Fatalf("expected 4 commands, got %d", len(p.Commands))
	}
	if p.Commands[0].Op != OpMove {
		t.Errorf("expected leading move, got %c", p.Commands[0].Op)
	}
	for _, c := range p.Commands[1:3] {
		if c.Op != OpLine {
			t.Errorf("expected line command, got %c", c.Op)
		}
	}
	if p.Commands[3].Op != OpClose {
		t.Errorf("expected trailing close, got %c", p.Commands[3].Op)
	}
}

func TestRingPathEmpty(t *testing.T) {
	p := RingPath("empty", nil, nil)
	if len(p.Commands) != 0 {
		t.Errorf("expected no commands, got %d", len(p.Commands))
	}
	if p.String() != "" {
		t.Errorf("expected empty serialization, got %q", p.String())
	}
}

func TestPathString(t *testing.T) {
	p := RingPath("t", []float64{10, 50.5, 30.123}, []float64{10, 10, 40})

	want := "M10.00,10.00 L50.50,10.00 L30.12,40.00 Z"
	if got := p.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPathMarshalJSON(t *testing.T) {
	p := RingPath("field/Columbus, OH/Short North", []float64{1, 2, 3}, []float64{4, 5, 6})

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		ID string `json:"id"`
		D  string `json:"d"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.ID != p.ID {
		t.Errorf("expected id %q, got %q", p.ID, decoded.ID)
	}
	if decoded.D != p.String() {
		t.Errorf("expected d %q, got %q", p.String(), decoded.D)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := RingPath("t", []float64{1, 2, 3}, []float64{4, 5, 6})
	c := p.Clone()

	c.Commands[0].X = 999
	if p.Commands[0].X == 999 {
		t.Errorf("clone aliases the original command slice")
	}
}
