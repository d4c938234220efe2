package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Console "speaks" by printing the reply. Used when no audio output is
// available.
type Console struct {
	out    io.Writer
	prefix string
}

func NewConsole(out io.Writer, prefix string) *Console {
	return &Console{out: out, prefix: prefix}
}

func (c *Console) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text = CleanText(text)
	if text == "" {
		return nil
	}
	if _, err := fmt.Fprintln(c.out, c.prefix+strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("writing reply: %w", err)
	}
	return nil
}
