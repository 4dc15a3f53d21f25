package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yz4230/hookdeploy/internal/container"
	"github.com/yz4230/hookdeploy/internal/descriptor"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/notify"
	"github.com/yz4230/hookdeploy/internal/process"
	"github.com/yz4230/hookdeploy/internal/storage"
)

type Options struct {
	Runner     process.Runner
	Containers container.Manager
	Descriptor *descriptor.Descriptor
	WorkTrees  storage.WorkTrees
	Notifier   notify.Notifier
	// Compose is the argv prefix of the compose orchestrator, e.g.
	// ["docker-compose"] or ["docker", "compose"].
	Compose []string
}

// Pipeline updates a compose service in place: pull, build, retire the old
// container and start a new one. It stops at the first failing step and does
// not roll back, so a failure after the old container is removed leaves the
// service down.
type Pipeline struct {
	opts  Options
	locks keyedMutex
}

func New(opts Options) *Pipeline {
	if len(opts.Compose) == 0 {
		opts.Compose = []string{"docker-compose"}
	}
	return &Pipeline{opts: opts}
}

// Deploy runs the pipeline for service. Deployments of the same service are
// serialized; different services proceed concurrently.
func (p *Pipeline) Deploy(ctx context.Context, service string) entity.PipelineResult {
	unlock := p.locks.lock(service)
	defer unlock()

	log := zerolog.Ctx(ctx).With().Str("service", service).Logger()
	ctx = log.WithContext(ctx)

	declared, err := p.opts.Descriptor.Declares(service)
	if errors.Is(err, entity.ErrConfigMissing) {
		log.Error().Err(err).Msg("descriptor missing")
		p.notifyf(ctx, "⚠️ *No docker-compose file found for %s*", service)
		return entity.Failed(service, entity.StageConfig, "Docker-compose file not found")
	}
	if err != nil {
		log.Error().Err(err).Msg("read descriptor")
		p.notifyf(ctx, "⚠️ *Invalid docker-compose file for %s:* ```%s```", service, err)
		return entity.Failed(service, entity.StageConfig, err.Error())
	}
	if !declared {
		log.Info().Msg("service not declared in descriptor")
		p.notifyf(ctx, "⚠️ *No service found in docker-compose file for %s*", service)
		return entity.Skipped(service)
	}

	log.Info().Msg("starting deployment")

	if !p.opts.WorkTrees.Exists(service) {
		return p.failf(ctx, service, entity.StagePull, "no git working copy at %s", p.opts.WorkTrees.Dir(service))
	}
	if err := p.run(ctx, "git", "-C", p.opts.WorkTrees.Dir(service), "pull"); err != nil {
		return p.fail(ctx, service, entity.StagePull, err)
	}
	p.notifyf(ctx, "🔄 *Successfully pulled %s*", service)

	if err := p.compose(ctx, "build", service); err != nil {
		return p.fail(ctx, service, entity.StageBuild, err)
	}
	p.notifyf(ctx, "🔨 *Successfully built %s*", service)

	if res, ok := p.retire(ctx, service); !ok {
		return res
	}

	if err := p.compose(ctx, "up", "-d", service); err != nil {
		return p.fail(ctx, service, entity.StageStart, err)
	}
	p.notifyf(ctx, "🚀 *Successfully updated and scaled %s*", service)

	log.Info().Msg("deployment finished")
	return entity.Succeeded(service)
}

// retire stops and removes the container currently serving service, if any.
func (p *Pipeline) retire(ctx context.Context, service string) (entity.PipelineResult, bool) {
	id, found, err := p.opts.Containers.Find(ctx, service)
	if err != nil {
		return p.fail(ctx, service, entity.StageStop, err), false
	}
	if !found {
		zerolog.Ctx(ctx).Info().Msg("no running container to replace")
		return entity.PipelineResult{}, true
	}

	if err := p.opts.Containers.Stop(ctx, id); err != nil {
		return p.fail(ctx, service, entity.StageStop, err), false
	}
	p.notifyf(ctx, "⏹️ *Successfully stopped %s*", service)

	if err := p.opts.Containers.Remove(ctx, id); err != nil {
		return p.fail(ctx, service, entity.StageRemove, err), false
	}
	p.notifyf(ctx, "🗑️ *Successfully removed %s*", service)
	return entity.PipelineResult{}, true
}

func (p *Pipeline) compose(ctx context.Context, args ...string) error {
	argv := append([]string{}, p.opts.Compose...)
	argv = append(argv, "-f", p.opts.Descriptor.Path)
	argv = append(argv, args...)
	return p.run(ctx, argv...)
}

func (p *Pipeline) run(ctx context.Context, argv ...string) error {
	return p.opts.Runner.Run(ctx, argv...).Err()
}

func (p *Pipeline) fail(ctx context.Context, service string, stage entity.Stage, err error) entity.PipelineResult {
	res := entity.Failed(service, stage, err.Error())
	zerolog.Ctx(ctx).Error().Err(err).Str("stage", string(stage)).Msg("deployment failed")
	p.notifyf(ctx, "⚠️ *Failed to %s service %s:* ```%s```", stage, service, notifiedDiagnostic(res.Diagnostic))
	return res
}

// maxNotifiedDiagnostic bounds the diagnostic quoted in a failure
// notification. Escaping may double it and Telegram drops messages over
// 4096 characters.
const maxNotifiedDiagnostic = 1800

// notifiedDiagnostic keeps the tail of diag, where build tools print the
// actual error, and defuses code fences that would end the pre block.
func notifiedDiagnostic(diag string) string {
	diag = strings.ReplaceAll(diag, "```", "'''")
	r := []rune(diag)
	if len(r) <= maxNotifiedDiagnostic {
		return diag
	}
	return "…" + string(r[len(r)-maxNotifiedDiagnostic:])
}

func (p *Pipeline) failf(ctx context.Context, service string, stage entity.Stage, format string, args ...any) entity.PipelineResult {
	return p.fail(ctx, service, stage, fmt.Errorf(format, args...))
}

func (p *Pipeline) notifyf(ctx context.Context, format string, args ...any) {
	notify.Notifyf(ctx, p.opts.Notifier, format, args...)
}

// keyedMutex hands out one mutex per key. Entries are never freed; the key
// space is the set of deployable services.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[string]*sync.Mutex{}
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
