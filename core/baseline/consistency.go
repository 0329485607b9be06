package baseline

import (
	"github.com/gammazero/deque"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// ConsistencyFilter keeps the longest contiguous run whose highest usage is at
// most Ratio times its lowest usage. Ratio overrides Settings.ConsistencyRatio
// when set.
//
// A later run of equal length replaces the current best only when the two do
// not share readings, so a window sliding along one plateau keeps its first
// position while a distinct, more recent plateau of the same length wins.
type ConsistencyFilter struct {
	Ratio float64 `json:"ratio"`
}

func (ConsistencyFilter) Name() string { return "consistency" }

func (f ConsistencyFilter) Apply(readings []model.Reading, s Settings) []model.Reading {
	if len(readings) == 0 {
		return []model.Reading{}
	}
	ratio := s.ConsistencyRatio
	if f.Ratio > 0 {
		ratio = f.Ratio
	}
	start, end := LongestStableRun(model.Usages(readings), ratio)
	out := make([]model.Reading, end-start)
	copy(out, readings[start:end])
	return out
}

// LongestStableRun returns the half-open bounds [start, end) of the longest
// window of values satisfying max <= ratio*min. It runs in linear time using
// monotonic deques of indexes. For a non-empty input the window holds at least
// one element.
func LongestStableRun(values []float64, ratio float64) (start, end int) {
	var maxQ, minQ deque.Deque[int]
	left := 0
	for right, v := range values {
		for maxQ.Len() > 0 && values[maxQ.Back()] <= v {
			maxQ.PopBack()
		}
		maxQ.PushBack(right)
		for minQ.Len() > 0 && values[minQ.Back()] >= v {
			minQ.PopBack()
		}
		minQ.PushBack(right)

		for left < right && !stable(values[maxQ.Front()], values[minQ.Front()], ratio) {
			left++
			if maxQ.Front() < left {
				maxQ.PopFront()
			}
			if minQ.Front() < left {
				minQ.PopFront()
			}
		}

		length, best := right-left+1, end-start
		if length > best || (length == best && left >= end) {
			start, end = left, right+1
		}
	}
	return start, end
}

func stable(hi, lo, ratio float64) bool {
	return hi <= ratio*lo
}
