//go:build !windows

package rngverify

import "time"

// A relative TimeStamp with the highest possible precision on the current runtime system.
// Values are only comparable within the same run of a program.
type TimeStamp = time.Time

// SampleTime returns a timestamp with the highest possible precision on the current runtime system.
func SampleTime() TimeStamp {
	return time.Now()
}

// DiffTimeStamps returns the difference between two timestamps in nanoseconds.
// It returns a negative value if t_later is earlier than t_earlier.
func DiffTimeStamps(t_earlier, t_later TimeStamp) int64 {
	return t_later.Sub(t_earlier).Nanoseconds()
}
