// Package persian prepares Persian lyric text for rendering engines
// that draw glyphs in visual order: contextual reshaping into Arabic
// presentation forms, right-to-left display ordering, and length-bound
// line breaking.
package persian

// glyphForms lists the presentation forms of a letter:
// isolated, final, initial, medial. Letters that never join forward
// carry only isolated and final forms.
type glyphForms struct {
	isolated rune
	final    rune
	initial  rune
	medial   rune
}

func (g glyphForms) joinsForward() bool { return g.initial != 0 }

// forms covers the Persian alphabet plus the Arabic letters common in
// Persian text (Presentation Forms-A for the four Persian letters,
// Forms-B for the rest).
var forms = map[rune]glyphForms{
	'ء': {isolated: 'ﺀ'},                                               // ء
	'آ': {isolated: 'ﺁ', final: 'ﺂ'},                              // آ
	'أ': {isolated: 'ﺃ', final: 'ﺄ'},                              // أ
	'ؤ': {isolated: 'ﺅ', final: 'ﺆ'},                              // ؤ
	'إ': {isolated: 'ﺇ', final: 'ﺈ'},                              // إ
	'ئ': {isolated: 'ﺉ', final: 'ﺊ', initial: 'ﺋ', medial: 'ﺌ'}, // ئ
	'ا': {isolated: 'ﺍ', final: 'ﺎ'},                              // ا
	'ب': {isolated: 'ﺏ', final: 'ﺐ', initial: 'ﺑ', medial: 'ﺒ'}, // ب
	'ة': {isolated: 'ﺓ', final: 'ﺔ'},                              // ة
	'ت': {isolated: 'ﺕ', final: 'ﺖ', initial: 'ﺗ', medial: 'ﺘ'}, // ت
	'ث': {isolated: 'ﺙ', final: 'ﺚ', initial: 'ﺛ', medial: 'ﺜ'}, // ث
	'ج': {isolated: 'ﺝ', final: 'ﺞ', initial: 'ﺟ', medial: 'ﺠ'}, // ج
	'ح': {isolated: 'ﺡ', final: 'ﺢ', initial: 'ﺣ', medial: 'ﺤ'}, // ح
	'خ': {isolated: 'ﺥ', final: 'ﺦ', initial: 'ﺧ', medial: 'ﺨ'}, // خ
	'د': {isolated: 'ﺩ', final: 'ﺪ'},                              // د
	'ذ': {isolated: 'ﺫ', final: 'ﺬ'},                              // ذ
	'ر': {isolated: 'ﺭ', final: 'ﺮ'},                              // ر
	'ز': {isolated: 'ﺯ', final: 'ﺰ'},                              // ز
	'س': {isolated: 'ﺱ', final: 'ﺲ', initial: 'ﺳ', medial: 'ﺴ'}, // س
	'ش': {isolated: 'ﺵ', final: 'ﺶ', initial: 'ﺷ', medial: 'ﺸ'}, // ش
	'ص': {isolated: 'ﺹ', final: 'ﺺ', initial: 'ﺻ', medial: 'ﺼ'}, // ص
	'ض': {isolated: 'ﺽ', final: 'ﺾ', initial: 'ﺿ', medial: 'ﻀ'}, // ض
	'ط': {isolated: 'ﻁ', final: 'ﻂ', initial: 'ﻃ', medial: 'ﻄ'}, // ط
	'ظ': {isolated: 'ﻅ', final: 'ﻆ', initial: 'ﻇ', medial: 'ﻈ'}, // ظ
	'ع': {isolated: 'ﻉ', final: 'ﻊ', initial: 'ﻋ', medial: 'ﻌ'}, // ع
	'غ': {isolated: 'ﻍ', final: 'ﻎ', initial: 'ﻏ', medial: 'ﻐ'}, // غ
	'ف': {isolated: 'ﻑ', final: 'ﻒ', initial: 'ﻓ', medial: 'ﻔ'}, // ف
	'ق': {isolated: 'ﻕ', final: 'ﻖ', initial: 'ﻗ', medial: 'ﻘ'}, // ق
	'ك': {isolated: 'ﻙ', final: 'ﻚ', initial: 'ﻛ', medial: 'ﻜ'}, // ك
	'ل': {isolated: 'ﻝ', final: 'ﻞ', initial: 'ﻟ', medial: 'ﻠ'}, // ل
	'م': {isolated: 'ﻡ', final: 'ﻢ', initial: 'ﻣ', medial: 'ﻤ'}, // م
	'ن': {isolated: 'ﻥ', final: 'ﻦ', initial: 'ﻧ', medial: 'ﻨ'}, // ن
	'ه': {isolated: 'ﻩ', final: 'ﻪ', initial: 'ﻫ', medial: 'ﻬ'}, // ه
	'و': {isolated: 'ﻭ', final: 'ﻮ'},                              // و
	'ي': {isolated: 'ﻱ', final: 'ﻲ', initial: 'ﻳ', medial: 'ﻴ'}, // ي
	'پ': {isolated: 'ﭖ', final: 'ﭗ', initial: 'ﭘ', medial: 'ﭙ'}, // پ
	'چ': {isolated: 'ﭺ', final: 'ﭻ', initial: 'ﭼ', medial: 'ﭽ'}, // چ
	'ژ': {isolated: 'ﮊ', final: 'ﮋ'},                              // ژ
	'ک': {isolated: 'ﮎ', final: 'ﮏ', initial: 'ﮐ', medial: 'ﮑ'}, // ک
	'گ': {isolated: 'ﮒ', final: 'ﮓ', initial: 'ﮔ', medial: 'ﮕ'}, // گ
	'ی': {isolated: 'ﯼ', final: 'ﯽ', initial: 'ﯾ', medial: 'ﯿ'}, // ی
}

// lamAlef maps the alef variants that ligate with a preceding lam to
// their isolated and final ligature forms.
var lamAlef = map[rune][2]rune{
	'آ': {'ﻵ', 'ﻶ'},
	'أ': {'ﻷ', 'ﻸ'},
	'إ': {'ﻹ', 'ﻺ'},
	'ا': {'ﻻ', 'ﻼ'},
}

// IsPersian reports whether the string contains at least one character
// from the Arabic Unicode block.
func IsPersian(s string) bool {
	for _, r := range s {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// isTransparent reports characters that are invisible to joining, the
// Arabic combining marks (tashkeel).
func isTransparent(r rune) bool {
	return r >= 0x064B && r <= 0x0652
}

// Reshape converts logical-order text into its contextual presentation
// forms, including the lam-alef ligatures. Characters without a forms
// entry pass through untouched.
func Reshape(s string) string {
	runes := []rune(s)
	var out []rune

	// neighbor scans past transparent marks for the joining decision.
	neighbor := func(from, step int) rune {
		for i := from; i >= 0 && i < len(runes); i += step {
			if !isTransparent(runes[i]) {
				return runes[i]
			}
		}
		return 0
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		g, ok := forms[r]
		if !ok {
			out = append(out, r)
			continue
		}

		prev := neighbor(i-1, -1)
		next := neighbor(i+1, +1)
		prevJoins := false
		if pg, ok := forms[prev]; ok {
			prevJoins = pg.joinsForward()
		}

		// Lam-alef ligature folds two letters into one glyph.
		if r == 'ل' {
			if lig, ok := lamAlef[next]; ok {
				if prevJoins {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				i++ // consume the alef
				continue
			}
		}

		_, nextHasForms := forms[next]
		nextJoins := nextHasForms && g.joinsForward()

		switch {
		case prevJoins && nextJoins:
			out = append(out, g.medial)
		case prevJoins:
			out = append(out, g.final)
		case nextJoins:
			out = append(out, g.initial)
		default:
			out = append(out, g.isolated)
		}
	}

	return string(out)
}

// isRTLChar also covers the presentation-forms blocks so Display works
// on already reshaped text.
func isRTLChar(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0xFB50 && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF)
}

// Display returns the visual, right-to-left ordering of a reshaped
// line. Embedded Latin and digit runs keep their logical order. Lines
// without Persian content are returned unchanged.
func Display(s string) string {
	hasRTL := false
	for _, r := range s {
		if isRTLChar(r) {
			hasRTL = true
			break
		}
	}
	if !hasRTL {
		return s
	}

	runes := []rune(s)
	reversed := make([]rune, len(runes))
	for i, r := range runes {
		reversed[len(runes)-1-i] = r
	}

	// Restore logical order inside any LTR run the full reverse flipped.
	isLTR := func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	}
	for start := 0; start < len(reversed); {
		if !isLTR(reversed[start]) {
			start++
			continue
		}
		end := start
		for end < len(reversed) && isLTR(reversed[end]) {
			end++
		}
		for l, r := start, end-1; l < r; l, r = l+1, r-1 {
			reversed[l], reversed[r] = reversed[r], reversed[l]
		}
		start = end
	}

	return string(reversed)
}

// Shape reshapes a logical-order line and returns it in display order.
func Shape(s string) string {
	if !IsPersian(s) {
		return s
	}
	return Display(Reshape(s))
}
