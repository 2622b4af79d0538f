package rngverify

import "sort"

// Median returns the median of data without modifying it, or 0 for empty data.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	sort.Float64s(dataCopy)

	l := len(dataCopy)
	if l%2 == 0 {
		return (dataCopy[l/2-1] + dataCopy[l/2]) / 2
	}
	return dataCopy[l/2]
}

// channelValues copies the samples of one channel of buf.
func channelValues(buf SampleBuffer, channel int) []float64 {
	cn := buf.Channels()
	vals := make([]float64, 0, buf.Len())
	for i := channel; i < buf.Len()*cn; i += cn {
		vals = append(vals, buf.At(i))
	}
	return vals
}
