package domain

import (
	"regexp"
	"strings"
)

var (
	namedFunctionPattern  = regexp.MustCompile(`(async\s+)?function\s+(\w+)\s*\(([^)]*)\)`)
	arrowFunctionPattern  = regexp.MustCompile(`(const|let|var)\s+(\w+)\s*=\s*(async\s+)?\(([^)]*)\)\s*=>`)
	pythonFunctionPattern = regexp.MustCompile(`def\s+(\w+)\(([^)]*)\):`)
)

// MatchKind records which structural pattern produced a classification.
type MatchKind string

const (
	MatchNone          MatchKind = ""
	MatchNamedFunction MatchKind = "function"
	MatchArrowFunction MatchKind = "arrow"
	MatchPythonDef     MatchKind = "def"
)

// Classification is the result of classifying a snippet.
type Classification struct {
	Category     Category  `json:"category"`
	Shape        Shape     `json:"shape"`
	Match        MatchKind `json:"match,omitempty"`
	FunctionName string    `json:"function_name,omitempty"`
	Params       []string  `json:"params,omitempty"`
	Async        bool      `json:"async,omitempty"`
}

// shapeRule pairs a predicate with the shape it selects.
type shapeRule struct {
	shape Shape
	match func(text string) bool
}

// shapeRules is evaluated top to bottom; the first match wins.
var shapeRules = []shapeRule{
	{ShapeAddition, containsAll("function", "add", "+")},
	{ShapeSubtraction, containsAll("function", "subtract", "-")},
	{ShapeMultiplication, containsAll("function", "multiply", "*")},
	{ShapeDivision, containsAll("function", "divide", "/")},
	{ShapeFunction, containsAll("function")},
	{ShapeClass, containsAny("class")},
	{ShapeVariable, containsAny("const", "let", "var")},
	{ShapeConditional, containsAny("if", "else")},
	{ShapeLoop, containsAny("for", "while")},
}

func containsAll(needles ...string) func(string) bool {
	return func(text string) bool {
		for _, n := range needles {
			if !strings.Contains(text, n) {
				return false
			}
		}
		return true
	}
}

func containsAny(needles ...string) func(string) bool {
	return func(text string) bool {
		for _, n := range needles {
			if strings.Contains(text, n) {
				return true
			}
		}
		return false
	}
}

// MatchShape runs only the substring cascade over text.
func MatchShape(text string) Shape {
	for _, rule := range shapeRules {
		if rule.match(text) {
			return rule.shape
		}
	}
	return ShapeUnknown
}

// Classify determines the structural category of text. It is total: text that
// matches nothing is unclassified-code.
func Classify(text string, lang LanguageTag) Classification {
	shape := MatchShape(text)

	if m := namedFunctionPattern.FindStringSubmatch(text); m != nil {
		return Classification{
			Category:     CategoryNamedFunction,
			Shape:        shape,
			Match:        MatchNamedFunction,
			FunctionName: m[2],
			Params:       splitParams(m[3]),
			Async:        m[1] != "",
		}
	}

	if m := arrowFunctionPattern.FindStringSubmatch(text); m != nil {
		return Classification{
			Category:     CategoryArrowFunction,
			Shape:        shape,
			Match:        MatchArrowFunction,
			FunctionName: m[2],
			Params:       splitParams(m[4]),
			Async:        m[3] != "",
		}
	}

	if lang == LanguagePython {
		if m := pythonFunctionPattern.FindStringSubmatch(text); m != nil {
			return Classification{
				Category:     CategoryNamedFunction,
				Shape:        shape,
				Match:        MatchPythonDef,
				FunctionName: m[1],
				Params:       splitParams(m[2]),
			}
		}
	}

	return Classification{
		Category: shape.Category(),
		Shape:    shape,
	}
}

// splitParams splits a parameter list on commas, dropping empty entries.
func splitParams(list string) []string {
	var params []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}
