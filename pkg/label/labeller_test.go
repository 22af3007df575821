package label

import "testing"

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		digits int
		input  string
		want   string
	}{
		{
			name:   "dash separated stops at digit count",
			digits: 13,
			input:  "109-602-3906-001-c.jpg",
			want:   "1096023906001",
		},
		{
			name:   "dash separated with trailing words",
			digits: 10,
			input:  "resources/109-602-3906-001-c-suit-veletta-albino.jpg",
			want:   "1096023906",
		},
		{
			name:   "underscore separated",
			digits: 6,
			input:  "abc_def_ghi.png",
			want:   "abcdef",
		},
		{
			name:   "no separator truncates basename",
			digits: 5,
			input:  "abcdefghij.jpeg",
			want:   "abcde",
		},
		{
			name:   "short name without separator returned whole",
			digits: 13,
			input:  "bag.png",
			want:   "bag",
		},
		{
			name:   "separator present but tokens too short falls through",
			digits: 13,
			input:  "a-b.png",
			want:   "a-b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.digits)
			if got := l.Label(tt.input); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabelIsDeterministic(t *testing.T) {
	l := New(13)
	a := l.Label("109-602-3906-001-c.jpg")
	b := l.Label("109-602-3906-001-c.jpg")
	if a != b {
		t.Errorf("Label not deterministic: %q vs %q", a, b)
	}
}

func TestNewDefaults(t *testing.T) {
	l := New(0)
	if got := l.Label("109-602-3906-001-c.jpg"); got != "1096023906001" {
		t.Errorf("default digits: Label = %q, want %q", got, "1096023906001")
	}
}

func TestCustomSeparator(t *testing.T) {
	l := New(4, ".")
	// Extension is stripped before tokenizing, so only the basename splits.
	if got := l.Label("ab.cd.ef.png"); got != "ab" {
		t.Errorf("Label = %q, want %q", got, "ab")
	}
}
