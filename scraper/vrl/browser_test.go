package vrl

import "testing"

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	if got := findChromeBinary("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("findChromeBinary = %q, want configured path", got)
	}
}

func TestJSArg(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{[]string{"a", "b'c"}, `["a","b'c"]`},
		{"#searchBtn", `"#searchBtn"`},
		{3, `3`},
	}
	for _, tt := range tests {
		if got := jsArg(tt.in); got != tt.want {
			t.Errorf("jsArg(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
