package conv

import (
	"strings"
	"testing"
)

func TestMarkdownToPlain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:  "empty input",
			input: "",
		},
		{
			name:     "plain text",
			input:    "The tavern door creaks open.",
			contains: []string{"The tavern door creaks open."},
		},
		{
			name:     "emphasis markers removed",
			input:    "**Mira** whispers *softly*.",
			contains: []string{"Mira", "softly"},
			absent:   []string{"**", "<strong>", "<em>"},
		},
		{
			name:     "script dropped",
			input:    "Hello <script>alert(1)</script>",
			contains: []string{"Hello"},
			absent:   []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToPlain([]byte(tt.input))
			if tt.input == "" && got != "" {
				t.Fatalf("expected empty output, got %q", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("MarkdownToPlain(%q) = %q, want it to contain %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(got, bad) {
					t.Errorf("MarkdownToPlain(%q) = %q, must not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}
