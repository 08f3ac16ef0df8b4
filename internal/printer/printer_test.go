package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/msgfeed/pkg/tuitest"
)

func TestPrinter_lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Section("History")
	p.Successf("saved %d", 2)
	p.Warnf("careful")
	p.Printf("  plain %s", "detail")

	out := tuitest.StripANSI(buf.String())
	assert.Contains(t, out, "History\n")
	assert.Contains(t, out, "saved 2\n")
	assert.Contains(t, out, "careful\n")
	assert.Contains(t, out, "  plain detail\n")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}
