package oracle

import (
	"math/rand/v2"
	"strings"
)

// Themes are the moods a vision can take. Two are chosen per invocation.
var Themes = []string{
	"Chaotic",
	"Nonsensical",
	"Mundane",
	"Vaguely religious",
	"Self Discovery",
	"Prophetically hopeful",
	"Prophetically dark",
}

// PickThemes selects two distinct random themes, comma-joined.
func PickThemes() string {
	i := rand.IntN(len(Themes))
	j := rand.IntN(len(Themes) - 1)
	if j >= i {
		j++
	}
	return strings.Join([]string{Themes[i], Themes[j]}, ", ")
}
