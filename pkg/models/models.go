package models

// Match is one detected occurrence of a profane token in a text.
// Start and End are 0-based half-open rune offsets into the original text.
// Index is the 1-based ordinal of the matched word among the text's word
// units; for a phrase it is the ordinal of the phrase's first word.
type Match struct {
	Word  string `json:"word"`
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}
