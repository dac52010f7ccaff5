package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Loader runs blocking operations as bubbletea commands and hands their results back to the update loop.
type Loader struct {
	ctx    context.Context
	logger *log.Logger
}

// NewLoader creates a Loader whose operations receive ctx.
func NewLoader(ctx context.Context, logger *log.Logger) *Loader {
	return &Loader{ctx: ctx, logger: logger}
}

// loadedMsg carries a completed load back to the update loop. apply runs at most once.
type loadedMsg struct {
	name  string
	once  *sync.Once
	apply func() tea.Cmd
}

func (m loadedMsg) run() tea.Cmd {
	var cmd tea.Cmd
	m.once.Do(func() { cmd = m.apply() })
	return cmd
}

// loadFailedMsg reports a failed load. A nil recover makes the failure fatal.
type loadFailedMsg struct {
	name    string
	err     error
	recover func(error) tea.Cmd
}

// LoadAndApply runs op off the update loop. When it succeeds, onSuccess runs exactly once on the update loop
// with op's result; when it fails, the coordinator treats the failure as fatal.
//
// op must not touch UI state. Overlapping calls are not deduplicated.
func LoadAndApply[T any](l *Loader, name string, op func(context.Context) (T, error), onSuccess func(T) tea.Cmd) tea.Cmd {
	return TryLoadAndApply(l, name, op, onSuccess, nil)
}

// TryLoadAndApply is [LoadAndApply] with a failure handler that also runs on the update loop,
// for loads whose failure the screen can absorb.
func TryLoadAndApply[T any](
	l *Loader,
	name string,
	op func(context.Context) (T, error),
	onSuccess func(T) tea.Cmd,
	onFailure func(error) tea.Cmd,
) tea.Cmd {
	return func() tea.Msg {
		l.logger.Debug("load started", "load", name)

		value, err := op(l.ctx)
		if err != nil {
			l.logger.Error("load failed", "load", name, "error", err)
			return loadFailedMsg{name: name, err: err, recover: onFailure}
		}

		l.logger.Debug("load finished", "load", name)
		return loadedMsg{
			name: name,
			once: &sync.Once{},
			apply: func() tea.Cmd {
				if onSuccess == nil {
					return nil
				}
				return onSuccess(value)
			},
		}
	}
}
