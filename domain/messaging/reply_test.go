package messaging

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestReply_Validate(t *testing.T) {
	tests := []struct {
		name    string
		reply   Reply
		wantErr error
	}{
		{"valid", Reply{RecipientID: "1784", Text: "hello"}, nil},
		{"missing recipient", Reply{Text: "hello"}, ErrNoRecipient},
		{"blank recipient", Reply{RecipientID: "  ", Text: "hello"}, ErrNoRecipient},
		{"missing text", Reply{RecipientID: "1784"}, ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reply.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		got := SplitText("A short summary.", 1000)
		if len(got) != 1 || got[0] != "A short summary." {
			t.Errorf("SplitText() = %q", got)
		}
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		if got := SplitText("   ", 10); len(got) != 0 {
			t.Errorf("SplitText() = %q, want no chunks", got)
		}
	})

	t.Run("no limit", func(t *testing.T) {
		long := strings.Repeat("word ", 500)
		if got := SplitText(long, 0); len(got) != 1 {
			t.Errorf("SplitText() returned %d chunks, want 1", len(got))
		}
	})

	t.Run("long text splits at whitespace within the limit", func(t *testing.T) {
		long := strings.TrimSpace(strings.Repeat("lorem ipsum ", 200))
		chunks := SplitText(long, 100)
		if len(chunks) < 2 {
			t.Fatalf("SplitText() returned %d chunks, want several", len(chunks))
		}
		for i, c := range chunks {
			if n := utf8.RuneCountInString(c); n > 100 {
				t.Errorf("chunk %d has %d characters, over the limit", i, n)
			}
			if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
				t.Errorf("chunk %d has surrounding whitespace: %q", i, c)
			}
		}
		if joined := strings.Join(chunks, " "); joined != long {
			t.Error("rejoined chunks differ from the original text")
		}
	})

	t.Run("unbroken text is cut hard", func(t *testing.T) {
		chunks := SplitText(strings.Repeat("x", 25), 10)
		want := []int{10, 10, 5}
		if len(chunks) != len(want) {
			t.Fatalf("SplitText() = %q", chunks)
		}
		for i, n := range want {
			if len(chunks[i]) != n {
				t.Errorf("chunk %d length = %d, want %d", i, len(chunks[i]), n)
			}
		}
	})
}
