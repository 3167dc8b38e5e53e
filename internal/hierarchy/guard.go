package hierarchy

// Reason explains why a candidate parent was rejected.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonSelf          Reason = "self"
	ReasonDescendant    Reason = "descendant"
	ReasonUnknownParent Reason = "unknown_parent"
)

// RejectionMessage is shown to operators for self and descendant rejections.
const RejectionMessage = "cannot select current category or one of its descendants as parent"

const unknownParentMessage = "parent category not found"

// NoParent is the candidate value that turns a node into a root.
const NoParent = ""

// Verdict is the outcome of a parent check. A rejection is a value, not an error.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

var accepted = Verdict{Valid: true}

// IsValidParent reports whether candidateID may become the parent of nodeID.
func (f *Forest) IsValidParent(nodeID, candidateID string) bool {
	return f.CheckParent(nodeID, candidateID).Valid
}

// CheckParent decides whether candidateID may become the parent of nodeID.
// It walks parent links upward from the candidate; if nodeID is met the
// candidate is the node itself or one of its descendants. Cost is O(depth).
func (f *Forest) CheckParent(nodeID, candidateID string) Verdict {
	if candidateID == NoParent {
		return accepted
	}
	if candidateID == nodeID {
		return Verdict{Reason: ReasonSelf, Message: RejectionMessage}
	}
	if _, ok := f.index[candidateID]; !ok {
		return Verdict{Reason: ReasonUnknownParent, Message: unknownParentMessage}
	}

	seen := make(map[string]bool)
	for cur := f.parent[candidateID]; cur != "" && !seen[cur]; cur = f.parent[cur] {
		if cur == nodeID {
			return Verdict{Reason: ReasonDescendant, Message: RejectionMessage}
		}
		seen[cur] = true
	}
	return accepted
}

// Ineligible returns the set of ids that cannot become the parent of nodeID:
// the node itself and all of its descendants.
func (f *Forest) Ineligible(nodeID string) map[string]bool {
	out := map[string]bool{}
	if nodeID == "" {
		return out
	}
	out[nodeID] = true
	for _, id := range f.Descendants(nodeID) {
		out[id] = true
	}
	return out
}
