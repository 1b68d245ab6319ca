package pipeline

import "github.com/xiongmaoshiwo/mlchem-digest/internal/source"

// Dedup collapses records that share a dedup key, keeping the first
// occurrence. Input order is significant: the pipeline merges sources in
// a fixed precedence order, so the higher-precedence source's metadata
// survives a cross-source duplicate. Records with no usable key are
// always kept.
func Dedup(records []source.Record) []source.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]source.Record, 0, len(records))
	for _, r := range records {
		key := r.DedupKey()
		if key == "" {
			out = append(out, r)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
