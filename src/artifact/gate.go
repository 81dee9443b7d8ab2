package artifact

// JumpGate decides what happens once a stream reports a new artifact id.
// With the detail view of the previous artifact open the user is asked
// first; otherwise navigation happens right away.
type JumpGate struct {
	DetailOpen bool
	Confirm    func(id string) bool
	Navigate   func(id string)
}

// Resolve navigates to the artifact in outcome when allowed and reports
// whether it did. An empty id is never navigated to.
func (g JumpGate) Resolve(o Outcome) bool {
	if o.ArtifactID == "" || g.Navigate == nil {
		return false
	}
	if g.DetailOpen && (g.Confirm == nil || !g.Confirm(o.ArtifactID)) {
		return false
	}
	g.Navigate(o.ArtifactID)
	return true
}
