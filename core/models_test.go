package core

import (
	"testing"
)

func TestIDFromText(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			name: "same text produces same ID",
			a:    "You shall not murder.",
			b:    "You shall not murder.",
			same: true,
		},
		{
			name: "casing and punctuation do not change identity",
			a:    "You shall not murder.",
			b:    "you shall not MURDER",
			same: true,
		},
		{
			name: "whitespace differences do not change identity",
			a:    "In the  beginning",
			b:    "In the beginning",
			same: true,
		},
		{
			name: "different wording produces different IDs",
			a:    "You shall not murder.",
			b:    "You shall not steal.",
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromText(tt.a)
			id2 := IDFromText(tt.b)

			if tt.same && id1 != id2 {
				t.Errorf("IDFromText() produced different IDs: %d vs %d", id1, id2)
			}
			if !tt.same && id1 == id2 {
				t.Errorf("IDFromText() produced same ID for different text")
			}
		})
	}
}

func TestRef_String(t *testing.T) {
	tests := []struct {
		name string
		ref  Ref
		want string
	}{
		{
			name: "single verse",
			ref:  Ref{Book: "EXO", Chapter: 20, Verse: 13},
			want: "EXO 20:13",
		},
		{
			name: "verse range",
			ref:  Ref{Book: "PRO", Chapter: 6, Verse: 16, VerseEnd: 19},
			want: "PRO 6:16-19",
		},
		{
			name: "range end equal to start collapses to single verse",
			ref:  Ref{Book: "JHN", Chapter: 3, Verse: 16, VerseEnd: 16},
			want: "JHN 3:16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.String(); got != tt.want {
				t.Errorf("Ref.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRef_IsRange(t *testing.T) {
	single := Ref{Book: "JHN", Chapter: 3, Verse: 16}
	if single.IsRange() {
		t.Errorf("single verse reported as range")
	}

	ranged := Ref{Book: "PRO", Chapter: 6, Verse: 16, VerseEnd: 19}
	if !ranged.IsRange() {
		t.Errorf("verse range not reported as range")
	}
}

func TestVerseContext_Clone(t *testing.T) {
	original := &VerseContext{
		Reference:   "EXO 20:13",
		Translation: "WEB",
		Text:        "You shall not murder.",
		Original: []OriginalWord{
			{Word: "תרצח", StrongsID: "H7523", Gloss: "to murder"},
		},
	}

	clone := original.Clone()
	if clone == original {
		t.Fatalf("Clone() returned the same pointer")
	}

	clone.Text = "mutated"
	clone.Original[0].Gloss = "mutated"

	if original.Text != "You shall not murder." {
		t.Errorf("mutating clone changed original text")
	}
	if original.Original[0].Gloss != "to murder" {
		t.Errorf("mutating clone changed original tags")
	}
}

func TestCloneVerses(t *testing.T) {
	if CloneVerses(nil) != nil {
		t.Errorf("CloneVerses(nil) should be nil")
	}

	verses := []*VerseContext{
		{Reference: "EXO 20:13", Translation: "WEB", Text: "You shall not murder."},
		{Reference: "EXO 20:16", Translation: "WEB", Text: "You shall not give false testimony."},
	}
	clones := CloneVerses(verses)

	if len(clones) != len(verses) {
		t.Fatalf("CloneVerses() length = %d, want %d", len(clones), len(verses))
	}
	clones[0].Text = "mutated"
	if verses[0].Text != "You shall not murder." {
		t.Errorf("mutating cloned slice changed original")
	}
}

func TestNormalizeQuery(t *testing.T) {
	got := NormalizeQuery("  What does  Exodus 20:13 SAY?  ")
	want := "what does exodus 20:13 say?"
	if got != want {
		t.Errorf("NormalizeQuery() = %q, want %q", got, want)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "punctuation stripped",
			in:   "You shall not murder.",
			want: "you shall not murder",
		},
		{
			name: "whitespace collapsed",
			in:   "In  the\tbeginning",
			want: "in the beginning",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
		ok   bool
	}{
		{"EXO 20:13", Ref{Book: "EXO", Chapter: 20, Verse: 13}, true},
		{"PRO 6:16-19", Ref{Book: "PRO", Chapter: 6, Verse: 16, VerseEnd: 19}, true},
		{"1JN 4:8", Ref{Book: "1JN", Chapter: 4, Verse: 8}, true},
		{"EXO 20", Ref{}, false},
		{"20:13", Ref{}, false},
		{"EXO 20:13-7", Ref{}, false},
		{"", Ref{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRef(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseRef(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRef_RoundTrip(t *testing.T) {
	refs := []Ref{
		{Book: "GEN", Chapter: 1, Verse: 1},
		{Book: "PSA", Chapter: 119, Verse: 105},
		{Book: "PRO", Chapter: 6, Verse: 16, VerseEnd: 19},
	}
	for _, ref := range refs {
		got, ok := ParseRef(ref.String())
		if !ok || got != ref {
			t.Errorf("round trip of %v gave %v (ok=%v)", ref, got, ok)
		}
	}
}
