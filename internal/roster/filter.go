package roster

import "strings"

// Filter returns the records whose field equals target after trimming both sides.
// Records where the field is absent or empty never match.
func Filter(records []Record, field, target string) []Record {
	target = strings.TrimSpace(target)

	out := make([]Record, 0)
	for _, rec := range records {
		v := rec.Value(field)
		if v == "" {
			continue
		}
		if strings.TrimSpace(v) == target {
			out = append(out, rec)
		}
	}
	return out
}
