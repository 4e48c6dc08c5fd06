package domain

// ActivityType distinguishes ordinary goal placements from budget-floor placements.
type ActivityType int

const (
	SimpleGoal ActivityType = iota
	BudgetActivity
)

// ActivityStatus is the lifecycle state of an Activity.
type ActivityStatus int

const (
	Unprocessed ActivityStatus = iota
	ReadyToSchedule
	Processed
	Scheduled
	Impossible
)

// Activity is one placement unit produced from a Goal by expansion.
// Activities are created once and mutated only by the Placer.
type Activity struct {
	GoalID       string
	Title        string
	ActivityType ActivityType
	DurationLeft int
	Status       ActivityStatus

	CandidateWindows *Timeline
	Overlay          *Timeline

	// Claims are weak holds on the hour indices reserved for this activity
	// so far; they never block other activities and are not consulted by
	// conflict scoring (which skips the activity itself by identity).
	Claims map[int]bool

	// AfterGoals are scheduling-precedence predecessors copied from the
	// originating goal, consulted by best_block.
	AfterGoals []string

	// insertionOrder breaks select_next ties deterministically.
	insertionOrder int
}

// NewActivity builds an Activity ready to enter the Placer's main loop.
func NewActivity(goalID, title string, activityType ActivityType, duration int, candidateWindows *Timeline, afterGoals []string, order int) *Activity {
	return &Activity{
		GoalID:           goalID,
		Title:            title,
		ActivityType:     activityType,
		DurationLeft:     duration,
		Status:           ReadyToSchedule,
		CandidateWindows: candidateWindows,
		Overlay:          candidateWindows.Clone(),
		Claims:           map[int]bool{},
		AfterGoals:       afterGoals,
		insertionOrder:   order,
	}
}

// Flex is the spare hours in the activity's overlay beyond its remaining duration.
func (a *Activity) Flex() int {
	return a.Overlay.TotalHours() - a.DurationLeft
}

// Claim records a weak hold on hour index i.
func (a *Activity) Claim(i int) {
	a.Claims[i] = true
}

// ReleaseClaims clears the activity's weak claim set. Claims never block
// other activities; the Placer releases them once the activity reaches a
// terminal status.
func (a *Activity) ReleaseClaims() {
	a.Claims = map[int]bool{}
}

// InsertionOrder returns the activity's creation order, used to break
// select_next ties deterministically.
func (a *Activity) InsertionOrder() int {
	return a.insertionOrder
}
