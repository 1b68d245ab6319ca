package source

import "testing"

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			"doi preferred",
			Record{DOI: "10.1000/ABC", URL: "http://x", Title: "T"},
			"10.1000/abc",
		},
		{
			"url fallback",
			Record{URL: "http://EXAMPLE.com/1", Title: "T"},
			"http://example.com/1",
		},
		{
			"title fallback",
			Record{Title: "Graph Networks"},
			"graph networks",
		},
		{
			"all empty",
			Record{},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.DedupKey(); got != tt.want {
				t.Errorf("DedupKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
