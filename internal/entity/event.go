package entity

type EventKind string

const (
	EventPing     EventKind = "ping"
	EventPush     EventKind = "push"
	EventCheckRun EventKind = "check_run"
	EventOther    EventKind = "other"

	// EventManual marks deployments started from the command line.
	EventManual EventKind = "manual"
)

const CheckRunCompleted = "completed"

// Event is the subset of a repository webhook payload the router acts on.
// Commit holds `after` for push events and `check_run.head_sha` for check runs.
type Event struct {
	Kind          EventKind
	Delivery      string
	Repository    string
	DefaultBranch string
	Commit        string
	Action        string
}

// Policy restricts which events may trigger a deployment. An empty list allows everything.
type Policy struct {
	AllowedBranches      []string
	AllowedPushRepos     []string
	AllowedCheckRunRepos []string
}
