package signal

// Static is a fixed Source. Handy for embedding hosts that compute a
// snapshot out-of-band, and for running the binary without a live agent.
type Static struct {
	Snap Snapshot
}

var _ Source = Static{}

func (s Static) CalibrationWarnings() ([]string, error) {
	return s.Snap.CalibrationWarnings, nil
}

func (s Static) ClassificationAccuracy() (map[string]CategoryAccuracy, error) {
	return s.Snap.Accuracy, nil
}

func (s Static) MetaInsights() (MetaInsights, error) {
	return s.Snap.Insights, nil
}

func (s Static) EvolutionScore() (EvolutionScore, error) {
	return s.Snap.Evolution, nil
}
