//go:build windows

package rngverify

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// A relative TimeStamp read from the performance counter.
// Values are only comparable within the same run of a program.
type TimeStamp = int64

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	procFreq    = modkernel32.NewProc("QueryPerformanceFrequency")
	procCounter = modkernel32.NewProc("QueryPerformanceCounter")

	qpcFrequency = getFrequency()
)

// getFrequency returns frequency in ticks per second.
func getFrequency() int64 {
	var freq int64
	r1, _, err := procFreq.Call(uintptr(unsafe.Pointer(&freq)))
	if r1 == 0 {
		panic(fmt.Sprintf("call failed: %v", err))
	}
	return freq
}

// SampleTime returns a timestamp with the highest possible precision on the current runtime system.
func SampleTime() TimeStamp {
	var qpc int64
	procCounter.Call(uintptr(unsafe.Pointer(&qpc)))
	return qpc
}

// DiffTimeStamps returns the difference between two timestamps in nanoseconds.
// It returns a negative value if t_later is earlier than t_earlier.
func DiffTimeStamps(t_earlier, t_later TimeStamp) int64 {
	ticks := t_later - t_earlier
	sec := ticks / qpcFrequency
	rem := ticks % qpcFrequency
	return sec*1_000_000_000 + rem*1_000_000_000/qpcFrequency
}
