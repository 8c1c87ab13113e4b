package utils

import "fmt"

var byteSymbols = []string{"K", "M", "G", "T", "P", "E"}

// FormatBytes renders n with binary units and one decimal, e.g. 1536 -> "1.5K".
func FormatBytes(n uint64) string {
	for i := len(byteSymbols) - 1; i >= 0; i-- {
		prefix := uint64(1) << (10 * uint(i+1))
		if n >= prefix {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(prefix), byteSymbols[i])
		}
	}
	return fmt.Sprintf("%dB", n)
}
