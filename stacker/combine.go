/*
NAME
  combine.go

DESCRIPTION
  combine.go implements the per-pixel combination modes (mean, median,
  smart mean, smart neighbor, neighbor) and the differential dropout
  detection (diffDOD) used to recover ld-decode false-positive dropout
  flags, per spec §4.I.

  Grounded on original_source/tools/ld-disc-stacker/stacker.cpp's
  stackMode/median/mean/closest/diffDod.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package stacker combines N aligned TBC sources into one output TBC,
// recovering dropouts by cross-source comparison.
package stacker

import "sort"

// Mode selects the per-pixel combination algorithm.
type Mode int

const (
	ModeMean Mode = iota
	ModeMedian
	ModeSmartMean
	ModeSmartNeighbor
	ModeNeighbor
)

// median returns the median of values (sorted copy; even-length sets
// average the two central elements), matching std::nth_element pairing.
func median(values []uint16) uint16 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]uint16(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 0 {
		return uint16((uint32(sorted[n/2-1]) + uint32(sorted[n/2])) / 2)
	}
	return sorted[n/2]
}

// mean returns the integer mean of values (0 if empty).
func mean(values []uint16) uint16 {
	if len(values) == 0 {
		return 0
	}
	var sum uint32
	for _, v := range values {
		sum += uint32(v)
	}
	return uint16(sum / uint32(len(values)))
}

// closest returns the element of values nearest to target.
func closest(values []uint16, target int) uint16 {
	if len(values) == 0 {
		return 0
	}
	best := values[0]
	bestDist := abs(target - int(best))
	for _, v := range values[1:] {
		d := abs(target - int(v))
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// diffDod recovers likely false-positive dropouts from a set of
// all-dropout-flagged values: values within +-10% of the median survive,
// the rest are discarded.
func diffDod(values []uint16) []uint16 {
	if len(values) < 3 {
		return values
	}
	med := float64(median(values))
	const thresholdPct = 10.0
	lo := med - (med/100.0)*thresholdPct
	hi := med + (med/100.0)*thresholdPct
	if lo < 0 {
		lo = 0
	}
	if hi > 65535 {
		hi = 65535
	}

	var out []uint16
	for _, v := range values {
		if float64(v) > lo && float64(v) < hi {
			out = append(out, v)
		}
	}
	return out
}

// neighborSet holds the per-direction candidate values and whether all
// sources flagged that neighbor as dropout, for smart-neighbor/neighbor
// modes.
type neighborSet struct {
	North, South, East, West   []uint16
	NAllDO, SAllDO, EAllDO, WAllDO bool
	CenterAllDO                bool
}

// directionValue picks a single representative value for a neighbor
// direction: the median of the candidates if every source flagged that
// pixel dropout (all values are diffDOD-recovered guesses), otherwise the
// first (unflagged, trusted) candidate. Returns ok=false if no candidate
// exists.
func directionValue(values []uint16, allDropout bool) (int, bool) {
	if allDropout && len(values) > 1 {
		return int(median(values)), true
	}
	if len(values) > 0 {
		return int(values[0]), true
	}
	return 0, false
}

// stackMode combines elements (the surviving, non-dropout-or-recovered
// pixel values for the current position) using the selected mode and
// neighbor context.
func stackMode(elements []uint16, n neighborSet, mode Mode, smartThreshold int) uint16 {
	switch mode {
	case ModeMean:
		return mean(elements)
	case ModeMedian:
		return median(elements)
	case ModeSmartMean:
		return smartMean(elements, smartThreshold)
	case ModeSmartNeighbor:
		return smartNeighbor(elements, n, smartThreshold)
	case ModeNeighbor:
		return neighborMode(elements, n)
	default:
		return mean(elements)
	}
}

func smartMean(elements []uint16, smartThreshold int) uint16 {
	med := int(median(elements))
	var sum, count int
	for _, v := range elements {
		if int(v) < med+smartThreshold && int(v) > med-smartThreshold {
			sum += int(v)
			count++
		}
	}
	if count == 0 {
		return uint16(med)
	}
	return uint16(sum / count)
}

func neighborClosestList(elements []uint16, n neighborSet) ([]uint16, int) {
	var closestList []uint16
	nbNeighbor := 0
	if v, ok := directionValue(n.North, n.NAllDO); ok {
		nbNeighbor++
		closestList = append(closestList, closest(elements, v))
	}
	if v, ok := directionValue(n.South, n.SAllDO); ok {
		nbNeighbor++
		closestList = append(closestList, closest(elements, v))
	}
	if v, ok := directionValue(n.East, n.EAllDO); ok {
		nbNeighbor++
		closestList = append(closestList, closest(elements, v))
	}
	if v, ok := directionValue(n.West, n.WAllDO); ok {
		nbNeighbor++
		closestList = append(closestList, closest(elements, v))
	}
	return closestList, nbNeighbor
}

func smartNeighbor(elements []uint16, n neighborSet, smartThreshold int) uint16 {
	med := int(median(elements))

	closestList, nbNeighbor := neighborClosestList(elements, n)
	var resultNeighbor int
	if nbNeighbor > 0 {
		resultNeighbor = int(closest(closestList, med))
	} else {
		resultNeighbor = int(mean(elements))
	}

	if len(elements) <= 2 {
		return uint16(resultNeighbor)
	}

	var sum, count int
	for _, v := range elements {
		if int(v) < resultNeighbor+smartThreshold && int(v) > resultNeighbor-smartThreshold {
			sum += int(v)
			count++
		}
	}
	if count == 0 {
		return uint16(resultNeighbor)
	}
	return uint16(sum / count)
}

func neighborMode(elements []uint16, n neighborSet) uint16 {
	med := int(median(elements))

	closestList, nbNeighbor := neighborClosestList(elements, n)
	if nbNeighbor == 0 {
		return uint16(med)
	}

	result := int(closest(closestList, med))
	if len(elements) > 2 {
		result = (med + result) / 2
	}
	return uint16(result)
}
