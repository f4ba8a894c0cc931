package match

import (
	"reflect"
	"testing"

	"github.com/safevideo/safetext/pkg/models"
	"github.com/safevideo/safetext/pkg/words"
)

func tokens(entries ...string) []words.Token {
	out := make([]words.Token, 0, len(entries))
	for _, e := range entries {
		out = append(out, words.NewToken(e))
	}

	return out
}

func TestScan_WordBoundaries(t *testing.T) {
	got := Scan("this is bad, not badly", tokens("bad"))

	want := []models.Match{{Word: "bad", Index: 3, Start: 8, End: 11}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_NoSubstringFalsePositive(t *testing.T) {
	tests := []struct {
		name string
		text string
		list []words.Token
	}{
		{"Word inside longer word", "the class is full", tokens("ass")},
		{"Word as prefix", "badly done", tokens("bad")},
		{"Underscore joins units", "bad_word here", tokens("bad")},
		{"Digits join units", "bad1 here", tokens("bad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scan(tt.text, tt.list); len(got) != 0 {
				t.Errorf("Scan(%q) = %+v, want no matches", tt.text, got)
			}
		})
	}
}

func TestScan_CaseInsensitive(t *testing.T) {
	got := Scan("this is BAD", tokens("Bad"))

	want := []models.Match{{Word: "BAD", Index: 3, Start: 8, End: 11}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_UnicodeOffsets(t *testing.T) {
	// Offsets are rune offsets, so multi-byte letters before the match
	// must not shift them.
	got := Scan("çok GÖT adam", tokens("göt"))

	want := []models.Match{{Word: "GÖT", Index: 2, Start: 4, End: 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_PhraseNonOverlapping(t *testing.T) {
	got := Scan("please go away now, go away!", tokens("go away"))

	want := []models.Match{
		{Word: "go away", Index: 2, Start: 7, End: 14},
		{Word: "go away", Index: 5, Start: 20, End: 27},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_PhraseAdvancesPastMatch(t *testing.T) {
	// Adjacent occurrences sharing characters are not both reported; the
	// scan continues from the end of each find.
	got := Scan("ha ha ha", tokens("ha ha"))

	want := []models.Match{{Word: "ha ha", Index: 1, Start: 0, End: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_PhraseAndWordBothReported(t *testing.T) {
	got := Scan("you son of a bitch", tokens("son of a bitch", "bitch"))

	want := []models.Match{
		{Word: "son of a bitch", Index: 2, Start: 4, End: 18},
		{Word: "bitch", Index: 5, Start: 13, End: 18},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_MultipleOccurrencesPerToken(t *testing.T) {
	got := Scan("shit happens, shit stays", tokens("shit"))

	want := []models.Match{
		{Word: "shit", Index: 1, Start: 0, End: 4},
		{Word: "shit", Index: 3, Start: 14, End: 18},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, want %+v", got, want)
	}
}

func TestScan_EmptyInputs(t *testing.T) {
	if got := Scan("", tokens("bad")); len(got) != 0 {
		t.Errorf("Scan with empty text = %+v, want no matches", got)
	}
	if got := Scan("some text", nil); len(got) != 0 {
		t.Errorf("Scan with no tokens = %+v, want no matches", got)
	}
}
