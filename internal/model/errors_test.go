package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapKindNil(t *testing.T) {
	if err := WrapKind(KindSinkWrite, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestKindOfWrappedChain(t *testing.T) {
	base := errors.New("broken pipe")
	err := fmt.Errorf("failed to play: %w", Errorf(KindDecoderRead, "failed to read frame: %w", base))
	kind, ok := KindOf(err)
	if !ok || kind != KindDecoderRead {
		t.Fatalf("expected DecoderRead, got %q (ok=%v)", kind, ok)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected chain to reach the underlying error")
	}
	if _, ok := KindOf(base); ok {
		t.Fatalf("plain errors have no kind")
	}
}

func TestErrorText(t *testing.T) {
	err := Errorf(KindBadArgs, "--fps must be > 0")
	if got := err.Error(); got != "BadArgs: --fps must be > 0" {
		t.Fatalf("unexpected text: %q", got)
	}
	if got := (&Error{Kind: KindProbeSpawn}).Error(); got != "ProbeSpawn" {
		t.Fatalf("unexpected bare text: %q", got)
	}
}
