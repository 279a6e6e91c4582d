package chains

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type execCommander struct {
	binary string
	log    *logrus.Logger
}

func NewCommander(binary string, log *logrus.Logger) Commander {
	return &execCommander{binary: binary, log: log}
}

func (e *execCommander) Run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%v %v: %w", e.binary, strings.Join(args, " "), context.DeadlineExceeded)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

func (e *execCommander) Interact(ctx context.Context, prompt, reply string, args ...string) error {
	cmd := exec.CommandContext(ctx, e.binary, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error:%+v", err)
	}
	w := newPromptWriter(prompt, func() {
		// Send the secret only once the prompt has been observed. Done off
		// the output goroutine so a full pipe cannot stall the capture.
		go func() {
			if _, err := io.WriteString(stdin, reply+"\n"); err != nil {
				e.log.Errorf("passphrase write error:%+v", err)
			}
			_ = stdin.Close()
		}()
	})
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%v start error:%+v", e.binary, err)
	}
	waitErr := cmd.Wait()
	if !w.sawPrompt() {
		_ = stdin.Close()
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%v %v: %w", e.binary, strings.Join(args, " "), context.DeadlineExceeded)
	}
	if waitErr != nil {
		return fmt.Errorf("%v exited with error:%+v,output:%s", e.binary, waitErr, w.tail())
	}
	if !w.sawPrompt() {
		return fmt.Errorf("%v completed without prompting,output:%s: %w", e.binary, w.tail(), ErrPromptNotSeen)
	}
	return nil
}

// promptWriter collects both output streams and fires onPrompt exactly once
// when the expected substring shows up.
type promptWriter struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	prompt   []byte
	seen     bool
	onPrompt func()
}

func newPromptWriter(prompt string, onPrompt func()) *promptWriter {
	return &promptWriter{prompt: []byte(prompt), onPrompt: onPrompt}
}

func (w *promptWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	if !w.seen && bytes.Contains(w.buf.Bytes(), w.prompt) {
		w.seen = true
		w.onPrompt()
	}
	return len(p), nil
}

func (w *promptWriter) sawPrompt() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seen
}

func (w *promptWriter) tail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	const max = 512
	b := w.buf.Bytes()
	if len(b) > max {
		b = b[len(b)-max:]
	}
	return string(bytes.TrimSpace(b))
}
