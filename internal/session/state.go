package session

// State identifies which part of the app the learner is in. Every
// mutation on Session is guarded by the current state; callers that
// invoke an operation from the wrong state get a TransitionError.
type State int

const (
	// StateOnboarding is the initial state: no learner is signed in.
	StateOnboarding State = iota
	// StateDashboard is the signed-in home state.
	StateDashboard
	// StateDrilling means a verse is presented and the learner may record.
	StateDrilling
	// StateProcessing means a clip has been submitted and a verdict is pending.
	StateProcessing
	// StateResults means the latest verdict is on display.
	StateResults
	// StateReport is the learner's own progress report.
	StateReport
	// StateAdminDirectory is the teacher-facing directory view.
	StateAdminDirectory
)

func (s State) String() string {
	switch s {
	case StateOnboarding:
		return "onboarding"
	case StateDashboard:
		return "dashboard"
	case StateDrilling:
		return "drilling"
	case StateProcessing:
		return "processing"
	case StateResults:
		return "results"
	case StateReport:
		return "report"
	case StateAdminDirectory:
		return "admin-directory"
	default:
		return "unknown"
	}
}
