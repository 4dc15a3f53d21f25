// Package testutil provides fakes shared by package tests.
package testutil

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yz4230/hookdeploy/internal/process"
)

// Context returns a context carrying a disabled logger.
func Context() context.Context {
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	return logger.WithContext(context.Background())
}

// Notifier records every notification it receives.
type Notifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *Notifier) Notify(ctx context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

func (n *Notifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// Contains reports whether any notification contains substr.
func (n *Notifier) Contains(substr string) bool {
	for _, m := range n.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Runner records invocations and answers from a table of canned outcomes
// keyed by the space-joined argv prefix. Unmatched commands succeed with
// empty output.
type Runner struct {
	mu       sync.Mutex
	calls    [][]string
	outcomes map[string]process.Outcome
}

func NewRunner() *Runner {
	return &Runner{outcomes: map[string]process.Outcome{}}
}

// On registers the outcome for commands starting with prefix.
func (r *Runner) On(prefix string, out process.Outcome) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[prefix] = out
	return r
}

// Fail makes commands starting with prefix exit 1 with stderr.
func (r *Runner) Fail(prefix, stderr string) *Runner {
	return r.On(prefix, process.Outcome{ExitCode: 1, Stderr: stderr})
}

func (r *Runner) Run(ctx context.Context, argv ...string) process.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, argv)

	cmdline := strings.Join(argv, " ")
	best := ""
	for prefix := range r.outcomes {
		if strings.HasPrefix(cmdline, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	out := process.Outcome{}
	if best != "" {
		out = r.outcomes[best]
	}
	out.Argv = argv
	return out
}

// Calls returns the recorded argv of every invocation, in order.
func (r *Runner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

// Commands returns every invocation as a space-joined command line.
func (r *Runner) Commands() []string {
	return lo.Map(r.Calls(), func(argv []string, _ int) string {
		return strings.Join(argv, " ")
	})
}
