package core

// Ingress holds nothing but the last published frame; it exists as a named
// step so Engine.Tick reads as the documented pipeline (ingress → energy →
// beat → phrase → ...) rather than inlining the clamp/deadzone logic at
// the call site.
type Ingress struct {
	last AudioFrame
}

// Ingest clamps every field to its domain and, if the joint result sits
// under the near-silence threshold, hard-zeroes all audio fields before
// publishing (spec.md §4.1, invariant 1).
func (in *Ingress) Ingest(frame AudioFrame) AudioFrame {
	clamped := frame.Clamp()
	if clamped.isNearSilent() {
		clamped = AudioFrame{}
	}
	in.last = clamped
	return clamped
}

// Last returns the most recently published frame.
func (in *Ingress) Last() AudioFrame {
	return in.last
}
