package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
)

// console adapts stdin/stdout to the transport contracts so the bot can be
// exercised locally. Every line typed during a continuation window counts as a
// reply to the most recent bot message; an empty line is a non-reply.
type console struct {
	mu    sync.Mutex
	seq   int
	last  string
	lines chan string
}

func newConsole() *console {
	c := &console{lines: make(chan string)}
	go c.pump()
	return c
}

func (c *console) pump() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	close(c.lines)
}

// ReadLine hands the next typed line to the command loop.
func (c *console) ReadLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-c.lines:
		return line, ok
	}
}

func (c *console) send(body string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := strconv.Itoa(c.seq)
	fmt.Printf("[bot #%s] %s\n", id, body)
	c.last = id
	return id
}

func (c *console) SendText(_ context.Context, text string) (string, error) {
	return c.send(text), nil
}

func (c *console) SendImage(_ context.Context, data []byte, mimeType string) (string, error) {
	return c.send(fmt.Sprintf("<image %s, %d bytes>", mimeType, len(data))), nil
}

// Wait blocks for the next typed line, up to timeout.
func (c *console) Wait(ctx context.Context, timeout time.Duration) (*model.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, model.ErrStopped
	case <-timer.C:
		return nil, model.ErrWaitTimeout
	case line, ok := <-c.lines:
		if !ok {
			return nil, model.ErrStopped
		}
		if line == "" {
			return nil, model.ErrNoReply
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		c.seq++
		return &model.Message{
			ID:      strconv.Itoa(c.seq),
			ReplyTo: c.last,
			Text:    line,
		}, nil
	}
}

// The console has no real renderer; rendered "images" carry the text bytes so
// SendImage can still report a sensible payload.
func (c *console) MarkdownToImage(_ context.Context, md string, _ int) ([]byte, error) {
	return []byte(md), nil
}

func (c *console) TextToImage(_ context.Context, text string) ([]byte, error) {
	return []byte(text), nil
}

var (
	_ model.Messenger   = (*console)(nil)
	_ model.ReplyWaiter = (*console)(nil)
	_ model.Renderer    = (*console)(nil)
)
