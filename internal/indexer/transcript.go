package indexer

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"dialograg/internal/domain"
)

// Transcripts follow a speaker-turn annotation convention: each utterance
// line starts with a numeric turn marker followed by a speaker role and the
// transcribed text, e.g. "3. hôtesse : UBS bonjour, je vous écoute".
var (
	turnMarkerRe = regexp.MustCompile(`^\[?(\d+)\]?\s*[.):\-]\s*`)
	idSanitizeRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Normalize prepares raw transcript text for embedding. Turn-index markers
// carry no prose and are stripped unless keepMarkers is set; speaker labels
// are semantically load-bearing for this domain and are always kept verbatim.
// The returned TurnRange spans the first and last marker seen.
func Normalize(raw string, keepMarkers bool) (string, domain.TurnRange) {
	var (
		lines []string
		turns domain.TurnRange
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := turnMarkerRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				if turns.First == 0 && turns.Last == 0 {
					turns.First = n
				}
				turns.Last = n
			}
			if !keepMarkers {
				line = strings.TrimSpace(line[len(m[0]):])
				if line == "" {
					continue
				}
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), turns
}

// UnitID derives the stable unit identifier from the source filename, so
// re-indexing an unchanged file replaces its unit rather than duplicating it.
func UnitID(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	id := idSanitizeRe.ReplaceAllString(strings.ToLower(base), "-")
	return strings.Trim(id, "-")
}
