package ffmpeg

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/asciiplay/internal/model"
)

func TestParseDims(t *testing.T) {
	cases := []struct {
		in   string
		want model.Dims
	}{
		{"1920,1080\n", model.Dims{W: 1920, H: 1080}},
		{" 80 , 24 ", model.Dims{W: 80, H: 24}},
		{"640,480,\n", model.Dims{W: 640, H: 480}},
	}
	for _, tc := range cases {
		got, err := ParseDims(tc.in)
		if err != nil {
			t.Fatalf("ParseDims(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDims(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseDimsRejects(t *testing.T) {
	for _, in := range []string{"", "1920", "1920,1080,3", "abc,12", "0,10", "-4,3"} {
		if _, err := ParseDims(in); err == nil {
			t.Fatalf("expected ParseDims(%q) to fail", in)
		}
	}
}

func TestProbeArgs(t *testing.T) {
	got := strings.Join(ProbeArgs("clip.mp4"), " ")
	want := "-v error -select_streams v:0 -show_entries stream=width,height -of csv=p=0 clip.mp4"
	if got != want {
		t.Fatalf("unexpected args: %s", got)
	}
}

func TestProbeDimsFromTool(t *testing.T) {
	script := writeScript(t, "echo 640,360")
	dims, err := ProbeDims(context.Background(), script, "clip.mp4")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if dims != (model.Dims{W: 640, H: 360}) {
		t.Fatalf("unexpected dims %+v", dims)
	}
}

func TestProbeDimsGarbageIsParseError(t *testing.T) {
	script := writeScript(t, "echo not-a-size")
	_, err := ProbeDims(context.Background(), script, "clip.mp4")
	if kind, ok := model.KindOf(err); !ok || kind != model.KindProbeParse {
		t.Fatalf("expected ProbeParse, got %v", err)
	}
}

func TestProbeDimsMissingBinary(t *testing.T) {
	_, err := ProbeDims(context.Background(), filepath.Join(t.TempDir(), "nope"), "clip.mp4")
	if kind, ok := model.KindOf(err); !ok || kind != model.KindProbeSpawn {
		t.Fatalf("expected ProbeSpawn, got %v", err)
	}
}
