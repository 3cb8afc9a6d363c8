package delim

import (
	"reflect"
	"testing"
)

var defaults = []Delimiter{
	{Left: "$$", Right: "$$", Display: true},
	{Left: `\[`, Right: `\]`, Display: true},
	{Left: "$", Right: "$"},
	{Left: `\(`, Right: `\)`},
}

func TestSplit(t *testing.T) {
	t.Parallel()

	inline := defaults[2]
	display := defaults[0]
	paren := defaults[3]
	bracket := defaults[1]

	tests := []struct {
		name  string
		input string
		want  []Segment
	}{
		{
			name:  "plain text",
			input: "hello world",
			want:  []Segment{{Kind: Text, Value: "hello world"}},
		},
		{
			name:  "inline dollar",
			input: "a $x^2$ b",
			want: []Segment{
				{Kind: Text, Value: "a "},
				{Kind: Math, Value: "x^2", Delimiter: inline},
				{Kind: Text, Value: " b"},
			},
		},
		{
			name:  "display before inline",
			input: "$$c=d$$",
			want:  []Segment{{Kind: Math, Value: "c=d", Delimiter: display}},
		},
		{
			name:  "paren delimiters",
			input: `\(a\)`,
			want:  []Segment{{Kind: Math, Value: "a", Delimiter: paren}},
		},
		{
			name:  "bracket delimiters across lines",
			input: "\\[\na\n\\]",
			want:  []Segment{{Kind: Math, Value: "\na\n", Delimiter: bracket}},
		},
		{
			name:  "unterminated",
			input: "$x^2",
			want: []Segment{
				{Kind: Unterminated, Value: "$", Delimiter: inline},
				{Kind: Text, Value: "x^2"},
			},
		},
		{
			name:  "currency is not math",
			input: "costs $5 and $ 10",
			want: []Segment{
				{Kind: Text, Value: "costs "},
				{Kind: Unterminated, Value: "$", Delimiter: inline},
				{Kind: Text, Value: "5 and $ 10"},
			},
		},
		{
			name:  "escaped dollar inside span",
			input: `$a\$b$`,
			want:  []Segment{{Kind: Math, Value: `a\$b`, Delimiter: inline}},
		},
		{
			name:  "escaped opener",
			input: `\$a$`,
			want:  []Segment{{Kind: Text, Value: `\$a$`}},
		},
		{
			name:  "inline does not cross lines",
			input: "$a\nb$",
			want: []Segment{
				{Kind: Unterminated, Value: "$", Delimiter: inline},
				{Kind: Text, Value: "a\nb$"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Split(tt.input, defaults)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) =\n%#v\nwant\n%#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		from  int
		d     Delimiter
		want  int
	}{
		{"simple", "$a$", 1, defaults[2], 2},
		{"empty inline", "$$", 1, defaults[2], -1},
		{"space before close", "$a $", 1, defaults[2], -1},
		{"display multi line", "$$a\nb$$", 2, defaults[0], 5},
		{"paren close after escape", `\(a\)`, 2, defaults[3], 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Close(tt.input, tt.from, tt.d); got != tt.want {
				t.Errorf("Close(%q, %d) = %d, want %d", tt.input, tt.from, got, tt.want)
			}
		})
	}
}

func TestStartBytes(t *testing.T) {
	t.Parallel()

	got := string(StartBytes(defaults))
	if got != `$\` {
		t.Errorf("StartBytes() = %q, want %q", got, `$\`)
	}
}
