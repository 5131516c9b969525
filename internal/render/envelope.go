package render

// Smooth moves current toward target, using attack when the target is above
// the current value and release otherwise. Rates are in (0,1]; larger tracks
// faster.
func Smooth(current, target, attack, release float64) float64 {
	rate := release
	if target > current {
		rate = attack
	}
	return current + (target-current)*rate
}
