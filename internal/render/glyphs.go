package render

import "sort"

var glyphSets = map[string][]rune{
	"default": []rune(" .,:-;+=*%#@▓█"),
	"box":     []rune(" ░▒▓█"),
	"lines":   []rune(" `.-=+*/\\|╱╲╳╬"),
	"spark":   []rune(" ´`^\"~:;*+×•¤°oO@#█"),
}

// Glyphs returns the characters used for brightness mapping, darkest first.
// Unknown names fall back to the default set.
func Glyphs(name string) []rune {
	if set, ok := glyphSets[name]; ok {
		return set
	}
	return glyphSets["default"]
}

// GlyphNames returns all glyph set identifiers.
func GlyphNames() []string {
	names := make([]string, 0, len(glyphSets))
	for name := range glyphSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
