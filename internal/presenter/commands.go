package presenter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
)

// CommandHandler is called for each input line and returns a reply.
type CommandHandler func(ctx context.Context, line string) string

// ReadCommands reads lines from r until EOF, "quit", or ctx is cancelled,
// passing each to handler and writing non-empty replies to w. Cancellation
// is noticed while a read is blocked and returns ctx.Err().
func ReadCommands(ctx context.Context, r io.Reader, w io.Writer, prompt func() string, handler CommandHandler) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		if prompt != nil {
			fmt.Fprint(w, prompt())
		}

		var raw string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read command: %w", err)
				}
				return nil
			}
			raw = l
		}

		line := strings.TrimSpace(raw)
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		}
		log.Printf("[INFO] received command: %s", line)
		if reply := handler(ctx, line); reply != "" {
			fmt.Fprintln(w, reply)
		}
	}
}
