// Package printer writes human-facing command output with severity styling.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/internal/core/styles"
)

type ctxKey struct{}

// Printer writes lines prefixed with a severity icon.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or a stdout printer.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(feed.SeveritySuccess, format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(feed.SeverityInfo, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(feed.SeverityWarn, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(feed.SeverityError, format, args...)
}

// Section prints a styled header line.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(title))
}

func (p *Printer) line(sev feed.Severity, format string, args ...any) {
	icon := styles.SeverityStyle(sev).Render(styles.SeverityIcon(sev))
	fmt.Fprintf(p.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
