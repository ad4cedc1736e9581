package blocked

import (
	"fleetblock-backend/lib/textutil"
	"sort"
	"time"
	"unicode/utf8"
)

const noReason = "N/A"

type Stats struct {
	TotalBlocked int    `json:"totalBlocked"`
	BlockedToday int    `json:"blockedToday"`
	TopReason    string `json:"topReason"`
}

// reasonWord is the first word of a maintenance reason with anything that
// is not a letter removed, ex. "Service," -> "Service".
func reasonWord(reason string) string {
	return textutil.Letters(textutil.FirstWord(reason))
}

func Summarize(list []Reservation, now time.Time) Stats {
	stats := Stats{
		TotalBlocked: len(list),
		TopReason:    noReason,
	}

	counts := map[string]int{}
	for _, r := range list {
		if r.BlockedOn(now) {
			stats.BlockedToday++
		}
		word := reasonWord(r.AcLastName)
		if utf8.RuneCountInString(word) > 3 {
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Strings(words)
	best := 0
	for _, word := range words {
		if counts[word] > best {
			best = counts[word]
			stats.TopReason = word
		}
	}
	return stats
}
