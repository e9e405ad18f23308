package classifier

// State is the position of one request in the classification pipeline.
type State int

const (
	Received State = iota
	Preprocessing
	Inferring
	Ranking
	Completed
	Rejected
	Unavailable
	Failed
)

var stateNames = [...]string{
	Received:      "received",
	Preprocessing: "preprocessing",
	Inferring:     "inferring",
	Ranking:       "ranking",
	Completed:     "completed",
	Rejected:      "rejected",
	Unavailable:   "unavailable",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
