// Package pager implements dotman's output writer abstraction:
// direct-to-stdout or piped-to-a-pager-process, selected by a fixed
// precedence of flags, environment variables, and config, with adaptive
// buffering so short output never spawns a pager at all.
package pager

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

var candidates = []string{"delta", "bat", "moar", "less", "more", "cat"}

// SelectOptions carries every input the selection rule consults.
type SelectOptions struct {
	Command       string // e.g. "log", "diff" — used for DOT_<CMD>_PAGER
	NoPager       bool   // --no-pager
	ConfigEnabled bool
	ConfigCommand string // config's pager.<command>_pager override, if any
	MinLines      int
	Stdout        *os.File
}

// Select decides the pager command to use, or "" for direct output,
// following a fixed rule order: explicit disablement, non-TTY stdout,
// NO_PAGER, then a precedence chain of environment variables, config, and
// auto-detection.
func Select(opts SelectOptions) string {
	if opts.NoPager || !opts.ConfigEnabled {
		return ""
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return ""
	}
	if os.Getenv("NO_PAGER") != "" {
		return ""
	}
	return selectCommand(opts)
}

// selectCommand applies the precedence chain alone: DOT_<CMD>_PAGER,
// DOT_PAGER, GIT_PAGER, PAGER, the config command, then auto-detection.
func selectCommand(opts SelectOptions) string {
	if opts.Command != "" {
		if v := os.Getenv("DOT_" + strings.ToUpper(opts.Command) + "_PAGER"); v != "" {
			return v
		}
	}
	if v := os.Getenv("DOT_PAGER"); v != "" {
		return v
	}
	if v := os.Getenv("GIT_PAGER"); v != "" {
		return v
	}
	if v := os.Getenv("PAGER"); v != "" {
		return v
	}
	if opts.ConfigCommand != "" {
		return opts.ConfigCommand
	}
	return autoDetect()
}

func autoDetect() string {
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}

// Writer buffers output up to a threshold, then either flushes directly to
// stdout (short output) or spawns the selected pager and streams the
// buffered-plus-remaining output to it (adaptive mode).
type Writer struct {
	out       io.Writer
	pagerCmd  string
	threshold int

	buf     bytes.Buffer
	spawned bool
	proc    *exec.Cmd
	stdin   io.WriteCloser
	dead    bool
}

// New returns a Writer that writes to out directly if pagerCmd is "" or
// the buffered line count never exceeds threshold; otherwise it spawns
// pagerCmd once the threshold is crossed.
func New(out io.Writer, pagerCmd string, threshold int) *Writer {
	if threshold <= 0 {
		threshold = 24
	}
	return &Writer{out: out, pagerCmd: pagerCmd, threshold: threshold}
}

// Write implements io.Writer, buffering until the line threshold is
// crossed or Close flushes short output directly.
func (w *Writer) Write(p []byte) (int, error) {
	if w.dead {
		return len(p), nil
	}
	if w.spawned {
		n, err := w.stdin.Write(p)
		if err != nil {
			w.dead = true
			return len(p), nil
		}
		return n, nil
	}

	w.buf.Write(p)
	if w.pagerCmd != "" && bytes.Count(w.buf.Bytes(), []byte{'\n'}) > w.threshold {
		if err := w.spawn(); err != nil {
			return w.flushDirect()
		}
	}
	return len(p), nil
}

func (w *Writer) spawn() error {
	cmd := exec.Command("sh", "-c", w.pagerCmd)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	w.proc = cmd
	w.stdin = stdin
	w.spawned = true
	if _, err := stdin.Write(w.buf.Bytes()); err != nil {
		w.dead = true
	}
	w.buf.Reset()
	return nil
}

func (w *Writer) flushDirect() (int, error) {
	n, err := w.out.Write(w.buf.Bytes())
	w.buf.Reset()
	return n, err
}

// Close flushes any remaining buffered output (directly, if the pager was
// never spawned) and waits for the pager process, if any, suppressing
// broken-pipe errors from the pager.
func (w *Writer) Close() error {
	if w.spawned {
		w.stdin.Close()
		err := w.proc.Wait()
		if err != nil && !isBrokenPipe(err) {
			return err
		}
		return nil
	}
	_, err := w.flushDirect()
	return err
}

// Dead reports whether the pager process has gone away, signaling callers
// to stop producing further output.
func (w *Writer) Dead() bool {
	return w.dead
}

func isBrokenPipe(err error) bool {
	return strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "epipe") ||
		strings.Contains(fmt.Sprint(err), "signal: broken pipe")
}
