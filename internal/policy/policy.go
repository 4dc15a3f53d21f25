package policy

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/notify"
)

// Filter decides whether an event targets a repository and branch this
// agent is allowed to deploy.
type Filter struct {
	policy   entity.Policy
	notifier notify.Notifier
}

func NewFilter(policy entity.Policy, notifier notify.Notifier) *Filter {
	return &Filter{policy: policy, notifier: notifier}
}

// Admits reports whether ev passes the allow-lists. Every rejection is
// announced through the notifier.
func (f *Filter) Admits(ctx context.Context, ev *entity.Event) bool {
	var repos []string
	switch ev.Kind {
	case entity.EventPush:
		repos = f.policy.AllowedPushRepos
	case entity.EventCheckRun:
		repos = f.policy.AllowedCheckRunRepos
	default:
		return true
	}

	log := zerolog.Ctx(ctx).With().
		Str("event", string(ev.Kind)).
		Str("repository", ev.Repository).
		Str("branch", ev.DefaultBranch).
		Logger()

	if !allowed(repos, ev.Repository) {
		log.Info().Msg("repository not allowed")
		notify.Notifyf(ctx, f.notifier, "⚠️ *Repository %s not in list of repositories*", ev.Repository)
		return false
	}
	if !allowed(f.policy.AllowedBranches, ev.DefaultBranch) {
		log.Info().Msg("branch not allowed")
		notify.Notifyf(ctx, f.notifier, "⚠️ *Branch %s not in list of branches*", ev.DefaultBranch)
		return false
	}
	return true
}

func allowed(list []string, v string) bool {
	return len(list) == 0 || lo.Contains(list, v)
}
