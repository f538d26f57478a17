package domain

import "strings"

type commentLabel struct {
	text  string
	glyph string
}

var commentLabels = map[Shape]commentLabel{
	ShapeAddition:       {"Addition Function", "➕"},
	ShapeSubtraction:    {"Subtraction Function", "➖"},
	ShapeMultiplication: {"Multiplication Function", "✖️"},
	ShapeDivision:       {"Division Function", "➗"},
	ShapeFunction:       {"Function Definition", "⚙️"},
	ShapeClass:          {"Class Definition", "🏗️"},
	ShapeVariable:       {"Variable Declaration", "📦"},
	ShapeConditional:    {"Conditional Statement", "🔀"},
	ShapeLoop:           {"Loop Structure", "🔁"},
	ShapeUnknown:        {"Code Block", "📝"},
}

// SynthesizeComment returns a single "//" comment line describing text.
func SynthesizeComment(text string) string {
	return renderComment(CommentSyntax{Prefix: "// "}, MatchShape(text))
}

// SynthesizeCommentFor is SynthesizeComment using the comment syntax of lang.
func SynthesizeCommentFor(text string, lang LanguageTag) string {
	return renderComment(LineComment(lang), MatchShape(text))
}

func renderComment(syntax CommentSyntax, shape Shape) string {
	label, ok := commentLabels[shape]
	if !ok {
		label = commentLabels[ShapeUnknown]
	}
	return syntax.Wrap(label.text + " " + label.glyph)
}

// EnsureCommentLine turns arbitrary text into exactly one comment line for lang,
// keeping an existing comment marker when the text already starts with one.
func EnsureCommentLine(text string, lang LanguageTag) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	syntax := LineComment(lang)
	if strings.HasPrefix(line, strings.TrimSpace(syntax.Prefix)) {
		return line
	}
	return syntax.Wrap(line)
}
