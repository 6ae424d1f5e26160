package normalize

import (
	"testing"
)

func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity ascii", in: "hello world", out: "hello world"},
		{name: "utf8 repair drops invalid bytes", in: string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}), out: "foo bar"},
		{name: "case fold", in: "URGENT Bug", out: "urgent bug"},
		{name: "remove zero-widths", in: "fa\u200Bl\u200Dlo", out: "fallo"},
		{name: "strip precomposed accents", in: "Crítico, Contraseña, caída", out: "critico, contrasena, caida"},
		{name: "remove combining marks", in: "cafe\u0301", out: "cafe"},
		{name: "width fold fullwidth", in: "ＥＲＲＯＲ bot", out: "error bot"},
		{name: "nfkc ligature", in: "oﬃce", out: "office"},
		{name: "digits and punctuation survive", in: "Call +57 300-123-4567 bit.ly/x", out: "call +57 300-123-4567 bit.ly/x"},
		{name: "collapse whitespace", in: "a\t\tb\nc   d", out: "a b c d"},
		{name: "empty", in: "", out: ""},
		{name: "only whitespace", in: " \t\n ", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fold(tc.in)
			if got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := Fold(got); again != got {
				t.Fatalf("Fold not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestClean_KeepsCase(t *testing.T) {
	in := "  My Email is\tUser@Client.com\x00 \r\n ok "
	want := "My Email is User@Client.com ok"
	if got := Clean(in); got != want {
		t.Fatalf("Clean(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"plain", "plain"},
		{"a\x00b\x7Fc", "abc"},
		{"keep\ttabs\nand lines\r", "keep\ttabs\nand lines\r"},
		{"c1\u0085x", "c1x"},
		{string([]byte{'o', 0xc3, 'k'}), "ok"},
		{"ñandú", "ñandú"},
	}
	for _, tc := range tests {
		if got := Sanitize(tc.in); got != tc.out {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a b c"
	got := collapseSpaces(in)
	if got != want {
		t.Fatalf("collapseSpaces(%q) = %q, want %q", in, got, want)
	}
}
