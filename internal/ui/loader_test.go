package ui

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type ctxKey struct{}

func TestLoadAndApply(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "loader")
	loader := NewLoader(ctx, log.New(io.Discard))

	t.Run("applies a success exactly once", func(t *testing.T) {
		calls := 0
		cmd := LoadAndApply(loader, "count", func(context.Context) (int, error) {
			return 3, nil
		}, func(n int) tea.Cmd {
			calls++
			if n != 3 {
				t.Errorf("expected 3, got %d", n)
			}
			return nil
		})

		msg, ok := cmd().(loadedMsg)
		if !ok {
			t.Fatalf("expected loadedMsg, got %T", cmd())
		}
		if msg.name != "count" {
			t.Errorf("expected name count, got %q", msg.name)
		}
		if calls != 0 {
			t.Fatalf("expected the handler to wait for the update loop, got %d calls", calls)
		}

		msg.run()
		msg.run()
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("passes the loader context", func(t *testing.T) {
		var got any
		cmd := LoadAndApply(loader, "ctx", func(ctx context.Context) (struct{}, error) {
			got = ctx.Value(ctxKey{})
			return struct{}{}, nil
		}, nil)
		cmd().(loadedMsg).run()

		if got != "loader" {
			t.Errorf("expected loader context, got %v", got)
		}
	})

	t.Run("reports a failure without applying", func(t *testing.T) {
		boom := errors.New("disk gone")
		called := false
		cmd := LoadAndApply(loader, "count", func(context.Context) (int, error) {
			return 0, boom
		}, func(int) tea.Cmd {
			called = true
			return nil
		})

		msg, ok := cmd().(loadFailedMsg)
		if !ok {
			t.Fatalf("expected loadFailedMsg, got %T", cmd())
		}
		if !errors.Is(msg.err, boom) {
			t.Errorf("expected %v, got %v", boom, msg.err)
		}
		if msg.recover != nil {
			t.Error("expected a fatal failure")
		}
		if called {
			t.Error("expected success handler not to run")
		}
	})

	t.Run("TryLoadAndApply carries the failure handler", func(t *testing.T) {
		var got error
		cmd := TryLoadAndApply(loader, "search", func(context.Context) (int, error) {
			return 0, errors.New("timeout")
		}, nil, func(err error) tea.Cmd {
			got = err
			return nil
		})

		msg := cmd().(loadFailedMsg)
		if msg.recover == nil {
			t.Fatal("expected a failure handler")
		}
		msg.recover(msg.err)
		if got == nil || got.Error() != "timeout" {
			t.Errorf("expected timeout, got %v", got)
		}
	})
}
