package evaluator

import (
	"io"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
)

const overRepBaseLimit = 151 * 10000

var overRepSteps = []int{10, 20, 40, 100, 149}

// EvaluateOverRepSeqs samples in1/in2 and populates
// OverrepAnalysis.R1/R2 with the substrings judged
// overrepresented by computeOverRepSeq.
func EvaluateOverRepSeqs(o *options.Options) error {
	if o.In1 != "" {
		counts, err := computeOverRepSeq(o.In1, o.Phred64)
		if err != nil {
			return err
		}
		o.OverrepAnalysis.R1 = counts
	}
	if o.In2 != "" {
		counts, err := computeOverRepSeq(o.In2, o.Phred64)
		if err != nil {
			return err
		}
		o.OverrepAnalysis.R2 = counts
	}
	return nil
}

// computeOverRepSeq samples reads up to overRepBaseLimit total bases,
// counting every substring at each length in overRepSteps, then keeps
// substrings whose count clears a length-scaled threshold (shorter
// substrings need a much higher count to qualify, since short substrings
// recur by chance). A final pass drops any qualifying substring that is
// itself contained in another qualifying substring without at least a
// 10x higher count, so a single true overrepresented sequence doesn't
// also report all of its own overrepresented infixes.
func computeOverRepSeq(path string, phred64 bool) (map[string]int, error) {
	r, err := fastqio.Open(path, phred64)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	counts := map[string]int{}
	bases := 0
	for bases < overRepBaseLimit {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rlen := rec.Length()
		bases += rlen
		for _, step := range overRepSteps {
			for i := 0; i+step <= rlen; i++ {
				counts[rec.Sequence[i:i+step]]++
			}
		}
	}

	hot := map[string]int{}
	for seq, count := range counts {
		l := len(seq)
		switch {
		case l >= 150 && count >= 3:
			hot[seq] = count
		case l >= 100 && count >= 5:
			hot[seq] = count
		case l >= 40 && count >= 20:
			hot[seq] = count
		case l >= 20 && count >= 100:
			hot[seq] = count
		case l >= 10 && count >= 500:
			hot[seq] = count
		}
	}

	for seq, count := range hot {
		for seq2, count2 := range hot {
			if seq == seq2 {
				continue
			}
			if containsSubstring(seq2, seq) && count/count2 < 10 {
				delete(hot, seq)
				break
			}
		}
	}
	return hot, nil
}

func containsSubstring(haystack, needle string) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
