package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{W: &buf}

	p.Success("seeded %d records", 19)
	p.Warning("skipped %s", "Skill")
	p.Error("failed")

	out := buf.String()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "seeded 19 records\n")
	assert.Contains(t, out, "⚠")
	assert.Contains(t, out, "skipped Skill\n")
	assert.Contains(t, out, "✗")
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}) })

	Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Equal(t, &buf, Writer())
}
