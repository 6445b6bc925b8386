package search

import "testing"

func TestCompletionSuffix(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		fullText   string
		wantSuffix string
		wantOK     bool
	}{
		{
			name:       "empty input",
			input:      "",
			fullText:   "example.com",
			wantSuffix: "",
			wantOK:     false,
		},
		{
			name:       "empty fullText",
			input:      "exa",
			fullText:   "",
			wantSuffix: "",
			wantOK:     false,
		},
		{
			name:       "exact match returns false",
			input:      "example.com",
			fullText:   "example.com",
			wantSuffix: "",
			wantOK:     false,
		},
		{
			name:       "prefix match",
			input:      "exa",
			fullText:   "example.com",
			wantSuffix: "mple.com",
			wantOK:     true,
		},
		{
			// U+2C65 / U+023A are a case pair whose encodings differ in
			// byte length, so the suffix offset must be tracked in
			// fullText, not taken from len(input).
			name:       "case fold changes byte length",
			input:      "ⱥb",
			fullText:   "Ⱥbcd",
			wantSuffix: "cd",
			wantOK:     true,
		},
		{
			name:       "case fold exact match",
			input:      "ⱥ",
			fullText:   "Ⱥ",
			wantSuffix: "",
			wantOK:     false,
		},
		{
			name:       "case insensitive preserves original case",
			input:      "git",
			fullText:   "GitHub.com",
			wantSuffix: "Hub.com",
			wantOK:     true,
		},
		{
			name:       "non-prefix no match",
			input:      "ample",
			fullText:   "example.com",
			wantSuffix: "",
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, ok := CompletionSuffix(tt.input, tt.fullText)
			if suffix != tt.wantSuffix || ok != tt.wantOK {
				t.Errorf("CompletionSuffix(%q, %q) = (%q, %v), want (%q, %v)",
					tt.input, tt.fullText, suffix, ok, tt.wantSuffix, tt.wantOK)
			}
		})
	}
}

func TestStripProtocol(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"example.com", "example.com"},
		{"ftp://example.com", "ftp://example.com"},
	}

	for _, tt := range tests {
		if got := StripProtocol(tt.url); got != tt.want {
			t.Errorf("StripProtocol(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestURLCompletionSuffix(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		fullURL     string
		wantSuffix  string
		wantMatched string
		wantOK      bool
	}{
		{
			name:        "direct match with protocol typed",
			input:       "https://exa",
			fullURL:     "https://example.com",
			wantSuffix:  "mple.com",
			wantMatched: "https://example.com",
			wantOK:      true,
		},
		{
			name:        "match without protocol",
			input:       "exa",
			fullURL:     "https://example.com",
			wantSuffix:  "mple.com",
			wantMatched: "example.com",
			wantOK:      true,
		},
		{
			name:        "stored www tolerated",
			input:       "exa",
			fullURL:     "https://www.example.com",
			wantSuffix:  "mple.com",
			wantMatched: "example.com",
			wantOK:      true,
		},
		{
			name:        "typed www matches bare host",
			input:       "www.exa",
			fullURL:     "https://example.com",
			wantSuffix:  "mple.com",
			wantMatched: "example.com",
			wantOK:      true,
		},
		{
			name:    "no match",
			input:   "golang",
			fullURL: "https://example.com",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, matched, ok := URLCompletionSuffix(tt.input, tt.fullURL)
			if ok != tt.wantOK {
				t.Fatalf("URLCompletionSuffix(%q, %q) ok = %v, want %v",
					tt.input, tt.fullURL, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if suffix != tt.wantSuffix || matched != tt.wantMatched {
				t.Errorf("URLCompletionSuffix(%q, %q) = (%q, %q), want (%q, %q)",
					tt.input, tt.fullURL, suffix, matched, tt.wantSuffix, tt.wantMatched)
			}
		})
	}
}
