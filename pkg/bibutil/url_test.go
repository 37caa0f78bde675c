package bibutil

import "testing"

func TestSanitizeURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare doi", "10.1109/VLHCC.2004.20", "https://doi.org/10.1109/VLHCC.2004.20"},
		{"doi prefix", "doi:10.1109/VLHCC.2004.20", "https://doi.org/10.1109/VLHCC.2004.20"},
		{"doi prefix slashes", "doi://10.1109/VLHCC.2004.20", "https://doi.org/10.1109/VLHCC.2004.20"},
		{"resolver url", "http://doi.org/10.1109/VLHCC.2004.20", "https://doi.org/10.1109/VLHCC.2004.20"},
		{"spaces escaped", "http://www.vg.no/fil e.html", "http://www.vg.no/fil%20e.html"},
		{"escapes decoded once", "http://www.vg.no/fil%20e.html", "http://www.vg.no/fil%20e.html"},
		{"url command", `\url{http://www.vg.no}`, "http://www.vg.no"},
		{"ftp preserved", "ftp://some.host/file.txt", "ftp://some.host/file.txt"},
		{"file url", "file:///home/user/paper.pdf", "file:///home/user/paper.pdf"},
		{"local path", "/home/user/paper.pdf", "/home/user/paper.pdf"},
		{"whitespace trimmed", "  http://www.vg.no  ", "http://www.vg.no"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeURL(tc.input); got != tc.want {
				t.Fatalf("SanitizeURL(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
