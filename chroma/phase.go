/*
NAME
  phase.go

DESCRIPTION
  phase.go implements the line-phase rule and the 4fSC sin/cos table shared
  by split1D/splitIQ/transformIQ.

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package chroma

// Sin4fsc and Cos4fsc implement the fixed 4-sample-period sin/cos table at
// 4fSC sampling: sin4fsc[i] = [1,0,-1,0][i%4]; cos4fsc[i] = sin4fsc[i+1].
var sin4fscTable = [4]float64{1, 0, -1, 0}

// Sin4fsc returns the table value at sample index i.
func Sin4fsc(i int) float64 {
	return sin4fscTable[((i%4)+4)%4]
}

// Cos4fsc returns the table value at sample index i.
func Cos4fsc(i int) float64 {
	return sin4fscTable[(((i+1)%4)+4)%4]
}

// IsPositiveOnEvenLines reports whether fieldPhaseID implies positive chroma
// phase on even field-lines: ID in {1,4}.
func IsPositiveOnEvenLines(fieldPhaseID int) bool {
	return fieldPhaseID == 1 || fieldPhaseID == 4
}

// LinePhase computes the line-phase rule for lineNumber (0-based frame line)
// given fieldPhaseID: fieldLine = lineNumber/2; isEvenLine = fieldLine even;
// linePhase = isEvenLine ? isPositiveOnEvenLines : !isPositiveOnEvenLines.
func LinePhase(lineNumber, fieldPhaseID int) bool {
	fieldLine := lineNumber / 2
	isEvenLine := fieldLine%2 == 0
	pos := IsPositiveOnEvenLines(fieldPhaseID)
	if isEvenLine {
		return pos
	}
	return !pos
}
