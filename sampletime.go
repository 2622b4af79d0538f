package rngverify

import "time"

// elapsedSince returns the time passed since start, measured with the highest precision the
// runtime system offers.
func elapsedSince(start TimeStamp) time.Duration {
	return time.Duration(DiffTimeStamps(start, SampleTime()))
}
