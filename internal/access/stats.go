package access

import "time"

// LinkStats are the per-link aggregates reported by the summary: interval
// count, total access time, and mean interval duration.
type LinkStats struct {
	Link  Link
	Count int
	Total time.Duration
	Mean  time.Duration
}

// Stats aggregates the set per link, in link computation order. Links
// with no intervals appear with a zero count so the report can call out
// pairs that never see each other.
func (s *Set) Stats() []LinkStats {
	index := make(map[string]int, len(s.Links))
	out := make([]LinkStats, len(s.Links))
	for i, l := range s.Links {
		out[i] = LinkStats{Link: l}
		index[l.ID] = i
	}
	for _, iv := range s.Intervals {
		i, ok := index[iv.Link]
		if !ok {
			// Interval for a link not in the link table; tolerate it so
			// Stats stays total over externally assembled sets.
			out = append(out, LinkStats{Link: Link{ID: iv.Link}})
			i = len(out) - 1
			index[iv.Link] = i
		}
		out[i].Count++
		out[i].Total += iv.Duration()
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].Mean = out[i].Total / time.Duration(out[i].Count)
		}
	}
	return out
}

// TotalDuration sums every interval in the set.
func (s *Set) TotalDuration() time.Duration {
	var total time.Duration
	for _, iv := range s.Intervals {
		total += iv.Duration()
	}
	return total
}
