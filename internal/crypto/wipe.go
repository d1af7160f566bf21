package crypto

import "github.com/awnumar/memguard"

// Wipe overwrites every given slice with zeroes. Nil slices are skipped.
func Wipe(slices ...[]byte) {
	for _, b := range slices {
		if len(b) > 0 {
			memguard.WipeBytes(b)
		}
	}
}
