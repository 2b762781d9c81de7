package animator

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithRate is an option builder that sets the rate used to scale increments.
//
// Parameters:
//   - r: the rate (nil is ignored)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the rate option to an animator
func WithRate(r Rate) AnimatorBuilderOption {
	return func(a *animator) {
		if r != nil {
			a.rate = r
		}
	}
}

// WithTracks is an option builder that registers initial tracks.
//
// Parameters:
//   - tracks: the tracks to add
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the tracks option to an animator
func WithTracks(tracks ...Track) AnimatorBuilderOption {
	return func(a *animator) {
		for _, t := range tracks {
			if t.Target == nil {
				panic("animator: WithTracks requires non-nil Targets")
			}
			a.tracks = append(a.tracks, t)
		}
	}
}
