package webhook

import (
	"fmt"

	"github.com/google/go-github/v56/github"
	"github.com/yz4230/hookdeploy/internal/entity"
)

const (
	EventHeader    = "X-GitHub-Event"
	DeliveryHeader = "X-GitHub-Delivery"
)

// ParseEvent decodes payload according to the event kind announced in the
// X-GitHub-Event header. Kinds the router does not act on are returned as
// entity.EventOther without looking at the payload.
func ParseEvent(kind string, payload []byte) (*entity.Event, error) {
	switch entity.EventKind(kind) {
	case entity.EventPing, entity.EventPush, entity.EventCheckRun:
	default:
		return &entity.Event{Kind: entity.EventOther}, nil
	}

	parsed, err := github.ParseWebHook(kind, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalid, err)
	}

	switch ev := parsed.(type) {
	case *github.PingEvent:
		return &entity.Event{Kind: entity.EventPing}, nil
	case *github.PushEvent:
		return &entity.Event{
			Kind:          entity.EventPush,
			Repository:    ev.GetRepo().GetName(),
			DefaultBranch: ev.GetRepo().GetDefaultBranch(),
			Commit:        ev.GetAfter(),
		}, nil
	case *github.CheckRunEvent:
		return &entity.Event{
			Kind:          entity.EventCheckRun,
			Repository:    ev.GetRepo().GetName(),
			DefaultBranch: ev.GetRepo().GetDefaultBranch(),
			Commit:        ev.GetCheckRun().GetHeadSHA(),
			Action:        ev.GetAction(),
		}, nil
	}
	return nil, fmt.Errorf("%w: unexpected payload type %T", entity.ErrInvalid, parsed)
}
