package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var twinkle = []string{"✦", "✧", "⋆", "·", "⋆", "✧"}

// spinner twinkles on stderr while a chart is computed. It stays silent
// when stderr is not a terminal.
type spinner struct {
	msg     string
	out     io.Writer
	enabled bool
	tick    time.Duration

	stop context.CancelFunc
	done chan struct{}
	once sync.Once
}

func newSpinner(msg string) *spinner {
	return &spinner{
		msg:     msg,
		out:     os.Stderr,
		enabled: stderrIsTerminal(),
		tick:    100 * time.Millisecond,
		done:    make(chan struct{}),
	}
}

// startSpinner shows msg until the returned stop function is called or ctx
// ends.
func startSpinner(ctx context.Context, msg string) (stop func()) {
	s := newSpinner(msg)
	s.run(ctx)
	return s.halt
}

func (s *spinner) run(ctx context.Context) {
	ctx, s.stop = context.WithCancel(ctx)
	if !s.enabled {
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		t := time.NewTicker(s.tick)
		defer t.Stop()
		blank := "\r" + strings.Repeat(" ", len(s.msg)+4) + "\r"
		for frame := 0; ; frame++ {
			select {
			case <-ctx.Done():
				io.WriteString(s.out, blank)
				return
			case <-t.C:
				fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(twinkle[frame%len(twinkle)]), StyleDim.Render(s.msg))
			}
		}
	}()
}

// halt stops the animation and clears its line. Later calls are no-ops.
func (s *spinner) halt() {
	s.once.Do(func() {
		s.stop()
		<-s.done
	})
}
