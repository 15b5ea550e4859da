package histogram

import (
	"mercator-hq/prometools/pkg/numfmt"
)

// Bucket is one non-cumulative histogram bucket.
type Bucket struct {
	// UpperBound is inclusive, in seconds. The last bucket is +Inf.
	UpperBound float64
	Count      uint64
}

// Snapshot is a point-in-time copy of a TimeHistogram.
type Snapshot struct {
	sum     float64
	count   uint64
	buckets []Bucket
}

// Sum returns the sum of all observations in seconds.
func (s Snapshot) Sum() float64 { return s.sum }

// Count returns the number of observations.
func (s Snapshot) Count() uint64 { return s.count }

// Buckets returns the non-cumulative bucket counts, ending with +Inf.
func (s Snapshot) Buckets() []Bucket { return s.buckets }

// MarshalJSON renders the snapshot as
//
//	{"sum":14,"count":5,"buckets":[{"le":1,"count":2},...,{"le":"+Inf","count":0}]}
func (s Snapshot) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 64+32*len(s.buckets))
	b = append(b, `{"sum":`...)
	b = numfmt.AppendJSON(b, numfmt.Float(s.sum))
	b = append(b, `,"count":`...)
	b = numfmt.AppendUint(b, s.count)
	b = append(b, `,"buckets":[`...)
	for i, bucket := range s.buckets {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, `{"le":`...)
		b = numfmt.AppendJSON(b, numfmt.Float(bucket.UpperBound))
		b = append(b, `,"count":`...)
		b = numfmt.AppendUint(b, bucket.Count)
		b = append(b, '}')
	}
	b = append(b, "]}"...)
	return b, nil
}
