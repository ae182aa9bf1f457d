package utils

import "hash/fnv"

// anonPalette is the pool the two tag colors of an anonymous identity are
// drawn from.
var anonPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
	"#aaffc3", "#808000", "#ffd8b1", "#000075", "#808080",
}

// AnonColors picks the two tag colors for an anon id. The pick is
// deterministic so the same id always renders the same tag.
func AnonColors(anonID string) (string, string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(anonID))
	sum := h.Sum32()
	first := int(sum % uint32(len(anonPalette)))
	second := int((sum / uint32(len(anonPalette))) % uint32(len(anonPalette)-1))
	if second >= first {
		second++
	}
	return anonPalette[first], anonPalette[second]
}
