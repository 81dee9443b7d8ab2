package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

const defaultChunkSize = 4096

// State indicates where a Consumer is in its lifecycle.
type State int32

const (
	StateNew       State = iota // Before Consume is called.
	StateStreaming              // Reading chunks.
	StateComplete               // Stream ended without an embedded error.
	StateFailed                 // Embedded generation error or transport failure.
)

func (s State) String() string {
	switch s {
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "new"
	}
}

// Update is delivered after every chunk with the cumulative text and its
// fresh parse.
type Update struct {
	Content string
	Result  Result
}

// Outcome is the terminal result of a successful stream. ArtifactID may be
// empty when the service did not report one.
type Outcome struct {
	ArtifactID string
	Result     Result
}

// GenerationError carries the message the service embedded in the stream.
// Error returns the message verbatim so it can be shown to the user as is.
type GenerationError struct {
	Message string
	Result  Result
}

func (e *GenerationError) Error() string { return e.Message }

// Consumer drains one generation stream. A Consumer is used for a single
// session; the buffer is never shared.
type Consumer struct {
	// OnUpdate, when set, is called synchronously after every read.
	OnUpdate  func(Update)
	ChunkSize int

	state atomic.Int32
}

// State reports the consumer lifecycle state. It is safe to call from other
// goroutines while Consume runs.
func (c *Consumer) State() State { return State(c.state.Load()) }

// Consume reads r until it ends. Early close of the connection and context
// cancellation count as the end of the stream. Any other read error is
// returned wrapped unless the text received so far already carries an
// embedded generation error, which wins.
func (c *Consumer) Consume(ctx context.Context, r io.Reader) (Outcome, error) {
	c.state.Store(int32(StateStreaming))

	size := c.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	buf := make([]byte, size)
	var (
		text    strings.Builder
		pending []byte
	)

	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			ready := completePrefix(pending)
			text.Write(pending[:ready])
			pending = append(pending[:0], pending[ready:]...)
			c.notify(text.String())
		}
		if err == nil {
			continue
		}
		if endOfStream(err) || ctx.Err() != nil {
			break
		}

		res := Parse(text.String())
		if res.Failed() {
			return c.fail(res)
		}
		c.state.Store(int32(StateFailed))
		return Outcome{Result: res}, fmt.Errorf("read generation stream: %w", err)
	}

	if len(pending) > 0 {
		text.Write(pending)
		c.notify(text.String())
	}
	res := Parse(text.String())
	if res.Failed() {
		return c.fail(res)
	}
	c.state.Store(int32(StateComplete))
	return Outcome{ArtifactID: res.ArtifactID(), Result: res}, nil
}

func (c *Consumer) notify(content string) {
	if c.OnUpdate == nil {
		return
	}
	c.OnUpdate(Update{Content: content, Result: Parse(content)})
}

func (c *Consumer) fail(res Result) (Outcome, error) {
	c.state.Store(int32(StateFailed))
	return Outcome{Result: res}, &GenerationError{Message: res.ErrorMessage(), Result: res}
}

func endOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// completePrefix returns how many leading bytes of p hold whole runes. An
// incomplete multi-byte sequence at the end stays pending for the next read.
func completePrefix(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if utf8.FullRune(p[i:]) {
				return len(p)
			}
			return i
		}
	}
	return len(p)
}
