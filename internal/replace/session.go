// Package replace sequences the two-pass "remove existing item, place new
// item" flow against the inpainting oracle. Add actions never come through
// here; they resolve a single mask and inpaint in one pass.
package replace

// State tracks how far a replace session progressed. Sessions are created
// per request and discarded after the response.
type State string

const (
	StatePending         State = "pending"
	StateRemoved         State = "removed"
	StatePlaced          State = "placed"
	StateRemovalFailed   State = "removal-failed"
	StatePlacementFailed State = "placement-failed"
)

// Terminal reports whether the session has finished, successfully or not.
func (s State) Terminal() bool {
	return s == StatePlaced || s == StatePlacementFailed
}
