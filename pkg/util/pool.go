package util

import "runtime"

const (
	minPoolSize = 2
	maxPoolSize = 8
)

// GetOptimalPoolSize returns how many parsers to keep per grammar.
//
// Each extraction parses the module once plus the selection at most twice,
// so a pool only needs to cover the concurrent requests an MCP host can
// issue: one parser per core, clamped to [2, 8].
func GetOptimalPoolSize() int {
	return clampPoolSize(runtime.NumCPU())
}

// GetOptimalPoolSizeWithOverride returns override when it is positive and
// GetOptimalPoolSize otherwise.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}

func clampPoolSize(n int) int {
	if n < minPoolSize {
		return minPoolSize
	}
	if n > maxPoolSize {
		return maxPoolSize
	}
	return n
}
