package common

import "math"

// Sign returns -1 for negative values and 1 otherwise, matching how facing
// directions are stored.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SmoothDamp moves current toward target with a critically damped spring.
// velocity is the caller-owned rate accumulator and is updated in place.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	change := current - target
	original := target

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	// never overshoot
	if (original-current > 0) == (out > original) {
		out = original
		*velocity = (out - original) / dt
	}
	return out
}
