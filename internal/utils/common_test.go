package utils

import "testing"

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !BoolFromString(s) {
			t.Errorf("BoolFromString(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "nope"} {
		if BoolFromString(s) {
			t.Errorf("BoolFromString(%q) = true, want false", s)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0/text", "[0].text"},
		{"#/foo/bar/0/baz", "foo.bar[0].baz"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.ptr); got != tt.want {
			t.Errorf("JSONPointerToPath(%q): got %q, want %q", tt.ptr, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if Plural(1) != "" || Plural(0) != "s" || Plural(2) != "s" {
		t.Errorf("Plural returned unexpected suffixes")
	}
}
