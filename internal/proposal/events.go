package proposal

// EventKind names a proposal lifecycle transition broadcast to subscribed
// dashboards. This is a supplement beyond the distilled spec: IC canisters
// cannot push to clients, but a Go service can, and the teacher's own
// api/dao_server.go already builds exactly this EventBus machinery — see
// DESIGN.md / SPEC_FULL.md §5.3.
type EventKind int

const (
	EventProposalCreated EventKind = iota
	EventVoteCast
	EventProposalExecuted
	EventProposalRejected
	EventProposalExpired
)

// Event is a single lifecycle notification.
type Event struct {
	Kind     EventKind
	Token    string
	Proposal Proposal
	Voter    string
	Choice   VoteChoice
}

// Sink receives lifecycle events. It must not block the caller for long —
// implementations are expected to buffer/drop under backpressure rather
// than stall the proposal store's critical section.
type Sink interface {
	Publish(Event)
}

// noopSink discards every event; used when a Store is built without a
// configured sink.
type noopSink struct{}

func (noopSink) Publish(Event) {}
