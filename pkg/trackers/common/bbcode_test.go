package common

import (
	"strings"
	"testing"
)

func TestConvertCodeToQuote(t *testing.T) {
	got := ConvertCodeToQuote("intro [code]dump[/code] outro [CODE]x[/CODE]")
	want := "intro [quote]dump[/quote] outro [quote]x[/quote]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConvertSpoilerToHide(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "[spoiler]x[/spoiler]", "[hide]x[/hide]"},
		{"titled", "[spoiler=BDInfo]x[/spoiler]", "[hide=BDInfo]x[/hide]"},
		{"mixed case", "[Spoiler]x[/SPOILER]", "[hide]x[/hide]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertSpoilerToHide(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertComparisonToCentered(t *testing.T) {
	in := "[comparison=Source, Encode]\nhttps://i.example/1.png https://i.example/2.png\n[/comparison]"
	got := ConvertComparisonToCentered(in)
	if !strings.HasPrefix(got, "[center]Source, Encode\n") {
		t.Errorf("missing centered source list: %q", got)
	}
	if !strings.Contains(got, "[img]https://i.example/1.png[/img][img]https://i.example/2.png[/img]") {
		t.Errorf("missing image run: %q", got)
	}
	if !strings.HasSuffix(got, "[/center]") {
		t.Errorf("missing closing tag: %q", got)
	}
}

func TestStripImageSizing(t *testing.T) {
	got := StripImageSizing("[img=350]a[/img] [img=1920x1080]b[/img] [img]c[/img]")
	want := "[img]a[/img] [img]b[/img] [img]c[/img]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
