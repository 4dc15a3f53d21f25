package webhook

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/yz4230/hookdeploy/internal/dedup"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/notify"
	"github.com/yz4230/hookdeploy/internal/policy"
	"github.com/yz4230/hookdeploy/internal/storage"
	"github.com/yz4230/hookdeploy/internal/usecase"
)

const (
	BodyIgnored   = "Webhook received and ignored"
	BodyProcessed = "Webhook received and processed"
	BodyInvalid   = "Invalid webhook payload"
)

// Response is what the HTTP layer sends back to the webhook provider.
type Response struct {
	Status int
	Body   string
}

func ignored() Response   { return Response{Status: http.StatusOK, Body: BodyIgnored} }
func processed() Response { return Response{Status: http.StatusOK, Body: BodyProcessed} }

// Router decides, per inbound event, whether a deployment is warranted and
// runs it. Each call is terminal: there is no state besides the commit cache.
type Router struct {
	filter   *policy.Filter
	commits  *dedup.Cache
	deploy   usecase.DeployServiceUsecase
	notifier notify.Notifier
}

func NewRouter(filter *policy.Filter, commits *dedup.Cache, deploy usecase.DeployServiceUsecase, notifier notify.Notifier) *Router {
	return &Router{filter: filter, commits: commits, deploy: deploy, notifier: notifier}
}

// Route parses payload as the event named by the request headers and
// dispatches it.
func (r *Router) Route(ctx context.Context, header http.Header, payload []byte) Response {
	kind := header.Get(EventHeader)
	ev, err := ParseEvent(kind, payload)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", kind).Msg("invalid webhook payload")
		return Response{Status: http.StatusBadRequest, Body: BodyInvalid}
	}
	ev.Delivery = header.Get(DeliveryHeader)
	return r.Dispatch(ctx, ev)
}

// Dispatch runs an already parsed event through policy, deduplication and
// the deployment pipeline.
func (r *Router) Dispatch(ctx context.Context, ev *entity.Event) Response {
	log := zerolog.Ctx(ctx).With().
		Str("event", string(ev.Kind)).
		Str("delivery", ev.Delivery).
		Str("repository", ev.Repository).
		Logger()
	ctx = log.WithContext(ctx)

	switch ev.Kind {
	case entity.EventPing:
		notify.Notifyf(ctx, r.notifier, "🏓 *Ping received*")
		return ignored()
	case entity.EventPush, entity.EventCheckRun:
	default:
		log.Debug().Msg("ignoring event")
		return ignored()
	}

	if !storage.ValidName(ev.Repository) {
		log.Warn().Msg("event without a usable repository name")
		return ignored()
	}
	if !r.filter.Admits(ctx, ev) {
		return ignored()
	}
	if ev.Kind == entity.EventCheckRun && ev.Action != entity.CheckRunCompleted {
		log.Debug().Str("action", ev.Action).Msg("check run not completed")
		return ignored()
	}
	if !r.commits.Accept(ctx, ev.Repository, ev.Commit) {
		log.Info().Str("commit", ev.Commit).Msg("commit missing or already seen")
		return ignored()
	}

	res := r.deploy.Execute(ctx, entity.DeployRequest{
		Service: ev.Repository,
		Commit:  ev.Commit,
		Trigger: ev.Kind,
	})
	return respond(res)
}

func respond(res entity.PipelineResult) Response {
	switch res.Outcome {
	case entity.OutcomeSuccess:
		return processed()
	case entity.OutcomeSkipped:
		return ignored()
	}
	if res.Stage == entity.StageConfig {
		return Response{Status: http.StatusBadRequest, Body: res.Message()}
	}
	return Response{Status: http.StatusInternalServerError, Body: res.Message()}
}
