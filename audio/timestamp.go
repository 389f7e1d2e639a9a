// SPDX-License-Identifier: EPL-2.0

package audio

// TimeStampFlags marks which TimeStamp fields carry a value.
type TimeStampFlags uint32

const (
	TimeStampSampleTimeValid TimeStampFlags = 1 << iota
	TimeStampHostTimeValid
)

// TimeStamp stamps one render request.
type TimeStamp struct {
	SampleTime float64
	HostTime   uint64
	Flags      TimeStampFlags
}

// SampleTimeValid reports whether SampleTime is set.
func (ts *TimeStamp) SampleTimeValid() bool {
	return ts != nil && ts.Flags&TimeStampSampleTimeValid != 0
}
