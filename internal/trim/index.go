package trim

import (
	"strings"

	"github.com/fastqpp/fastqpp/internal/options"
)

// indexFromComment extracts the barcode index from an Illumina-style
// header comment, the field after the last colon, e.g. "1:N:0:ATCACG"
// yields "ATCACG".
func indexFromComment(comment string) string {
	idx := strings.LastIndexByte(comment, ':')
	if idx < 0 {
		return comment
	}
	return comment[idx+1:]
}

func hammingWithin(a, b string, threshold int) bool {
	if len(a) != len(b) {
		return false
	}
	diff := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff++
			if diff > threshold {
				return false
			}
		}
	}
	return true
}

func matchesBlacklist(index string, blacklist []string, threshold int) bool {
	for _, b := range blacklist {
		if hammingWithin(index, b, threshold) {
			return true
		}
	}
	return false
}

// MatchesIndexBlacklist reports whether comment1/comment2's barcode
// indices are within the configured threshold of any entry in the
// corresponding blacklist, meaning the pair should be dropped.
func MatchesIndexBlacklist(comment1, comment2 string, f *options.IndexFilter) bool {
	if !f.Enabled {
		return false
	}
	if len(f.Blacklist1) > 0 && matchesBlacklist(indexFromComment(comment1), f.Blacklist1, f.Threshold) {
		return true
	}
	if len(f.Blacklist2) > 0 && matchesBlacklist(indexFromComment(comment2), f.Blacklist2, f.Threshold) {
		return true
	}
	return false
}
