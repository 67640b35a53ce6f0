package notify

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	n := NewTerminal(&out, zerolog.Nop())
	n.Success("Report submitted successfully")
	n.Error("Failed to load data")

	want := "✓ Report submitted successfully\n✗ Failed to load data\n"
	if out.String() != want {
		t.Fatalf("got %q", out.String())
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatal("expected empty recorder")
	}
	r.Info("a")
	r.Error("b")
	if got := r.Messages(); len(got) != 2 || got[0] != (Message{LevelInfo, "a"}) {
		t.Fatalf("unexpected messages %+v", got)
	}
	if last, _ := r.Last(); last.Level != LevelError || last.Text != "b" {
		t.Fatalf("unexpected last %+v", last)
	}
}
