package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.DebugLevel)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, zerolog.Disabled) })

	l := For("player")
	l.Debug().Msg("frame")

	out := buf.String()
	if !strings.Contains(out, `"component":"player"`) {
		t.Errorf("missing component field: %s", out)
	}
	if !strings.Contains(out, `"message":"frame"`) {
		t.Errorf("missing message: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.WarnLevel)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, zerolog.Disabled) })

	l := For("executor")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record missing")
	}
}

func TestFilePath(t *testing.T) {
	p := FilePath()
	if !strings.HasSuffix(p, "crabcrust.log") {
		t.Errorf("unexpected log path %s", p)
	}
}
