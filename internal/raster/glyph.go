package raster

// Alphabet holds every glyph SelectGlyph can return.
const Alphabet = "_^|/\\'. -c@"

type span struct {
	lo uint8
	hi uint8
}

func (s span) has(v uint8) bool {
	return v >= s.lo && v <= s.hi
}

var (
	dark  = span{0, 127}
	light = span{128, 255}
)

// glyphRule matches a quadrant in reading order: top-left, top-right,
// bottom-left, bottom-right.
type glyphRule struct {
	q     [4]span
	glyph byte
}

// Rules are evaluated top to bottom; the uniform rules at the end only fire
// when no directional rule above them matched.
var glyphTable = []glyphRule{
	{q: [4]span{dark, dark, light, light}, glyph: '_'},
	{q: [4]span{light, light, dark, dark}, glyph: '^'},

	{q: [4]span{dark, light, dark, light}, glyph: '|'},
	{q: [4]span{light, dark, light, dark}, glyph: '|'},

	{q: [4]span{dark, {192, 255}, light, light}, glyph: '/'},
	{q: [4]span{light, light, light, dark}, glyph: '/'},
	{q: [4]span{light, dark, light, light}, glyph: '\\'},
	{q: [4]span{light, light, dark, light}, glyph: '\\'},

	{q: [4]span{light, dark, dark, dark}, glyph: '\''},
	{q: [4]span{dark, dark, dark, light}, glyph: '.'},
	{q: [4]span{dark, light, dark, dark}, glyph: '\''},
	{q: [4]span{dark, dark, light, dark}, glyph: '.'},

	{q: [4]span{{0, 63}, {0, 63}, {0, 63}, {0, 63}}, glyph: ' '},
	{q: [4]span{{64, 127}, {64, 127}, {64, 127}, {64, 127}}, glyph: '-'},
	{q: [4]span{{128, 191}, {128, 191}, {128, 191}, {128, 191}}, glyph: 'c'},
	{q: [4]span{{192, 255}, {192, 255}, {192, 255}, {192, 255}}, glyph: '@'},
}

const fallbackGlyph = ' '

// SelectGlyph maps a quadrant of luminance samples to one ASCII glyph.
func SelectGlyph(q00, q10, q01, q11 uint8) byte {
	for _, rule := range glyphTable {
		if rule.q[0].has(q00) && rule.q[1].has(q10) && rule.q[2].has(q01) && rule.q[3].has(q11) {
			return rule.glyph
		}
	}
	return fallbackGlyph
}
