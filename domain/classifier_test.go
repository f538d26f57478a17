package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_StructuralMatches(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		lang     LanguageTag
		category Category
		match    MatchKind
		fn       string
		params   []string
		async    bool
	}{
		{
			name:     "named function without params",
			text:     "function foo() {}",
			lang:     LanguageJavaScript,
			category: CategoryNamedFunction,
			match:    MatchNamedFunction,
			fn:       "foo",
		},
		{
			name:     "named function params are trimmed",
			text:     "function foo( a ,b,  ) { return a }",
			lang:     LanguageJavaScript,
			category: CategoryNamedFunction,
			match:    MatchNamedFunction,
			fn:       "foo",
			params:   []string{"a", "b"},
		},
		{
			name:     "async named function",
			text:     "async function load(url) { return fetch(url) }",
			lang:     LanguageJavaScript,
			category: CategoryNamedFunction,
			match:    MatchNamedFunction,
			fn:       "load",
			params:   []string{"url"},
			async:    true,
		},
		{
			name:     "arrow function",
			text:     "const greet = (name) => console.log(name)",
			lang:     LanguageJavaScript,
			category: CategoryArrowFunction,
			match:    MatchArrowFunction,
			fn:       "greet",
			params:   []string{"name"},
		},
		{
			name:     "async arrow function",
			text:     "let run = async () => { await go() }",
			lang:     LanguageTypeScript,
			category: CategoryArrowFunction,
			match:    MatchArrowFunction,
			fn:       "run",
			async:    true,
		},
		{
			name:     "python def",
			text:     "def add(x, y):\n    return x+y",
			lang:     LanguagePython,
			category: CategoryNamedFunction,
			match:    MatchPythonDef,
			fn:       "add",
			params:   []string{"x", "y"},
		},
		{
			name:     "named function wins over arrow",
			text:     "const f = () => 1\nfunction g() {}",
			lang:     LanguageJavaScript,
			category: CategoryNamedFunction,
			match:    MatchNamedFunction,
			fn:       "g",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text, tt.lang)
			assert.Equal(t, tt.category, c.Category)
			assert.Equal(t, tt.match, c.Match)
			assert.Equal(t, tt.fn, c.FunctionName)
			assert.Equal(t, tt.params, c.Params)
			assert.Equal(t, tt.async, c.Async)
		})
	}
}

func TestClassify_PythonDefOnlyForPython(t *testing.T) {
	c := Classify("def add(x, y):\n    return x+y", LanguageJavaScript)
	assert.Equal(t, MatchNone, c.Match)
	assert.Empty(t, c.FunctionName)
}

func TestClassify_SubstringCascade(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		shape    Shape
		category Category
	}{
		{"addition", "var add = function (a, b) { return a + b }", ShapeAddition, CategoryNamedFunction},
		{"subtraction", "x = function subtract(a,b){return a - b}", ShapeSubtraction, CategoryNamedFunction},
		{"multiplication", "module.multiply = function(a, b) { return a * b }", ShapeMultiplication, CategoryNamedFunction},
		{"division", "var divide = function(a, b) { return a / b }", ShapeDivision, CategoryNamedFunction},
		{"plain function", "callback(function() {})", ShapeFunction, CategoryNamedFunction},
		{"class", "class Foo {}", ShapeClass, CategoryClass},
		{"variable", "let x = 1", ShapeVariable, CategoryVariable},
		{"conditional", "if (ok) { go() }", ShapeConditional, CategoryConditional},
		{"loop", "while (true) { tick() }", ShapeLoop, CategoryLoop},
		{"nothing", "x", ShapeUnknown, CategoryUnclassified},
		{"empty", "", ShapeUnknown, CategoryUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text, LanguageUnknown)
			assert.Equal(t, tt.shape, c.Shape)
			assert.Equal(t, tt.category, c.Category)
		})
	}
}

func TestClassify_PrecedenceIsFixed(t *testing.T) {
	// class is checked before loop, variable before conditional.
	assert.Equal(t, CategoryClass, Classify("class Runner { run() { for (;;) {} } }", LanguageUnknown).Category)
	assert.Equal(t, CategoryVariable, Classify("if (ok) { let x = 1 }", LanguageUnknown).Category)
	assert.Equal(t, CategoryConditional, Classify("if (ok) { while (x) {} }", LanguageUnknown).Category)
}

func TestClassify_IsLexical(t *testing.T) {
	// "class" inside a string literal still selects class-definition.
	c := Classify(`print("first class")`, LanguagePython)
	assert.Equal(t, CategoryClass, c.Category)
}

func TestClassify_IsDeterministic(t *testing.T) {
	inputs := []string{"function foo(a) {}", "for x in y: pass", "random text", "class A: pass"}
	for _, in := range inputs {
		assert.Equal(t, Classify(in, LanguagePython), Classify(in, LanguagePython), in)
	}
}

func TestShapeCategory_Unknown(t *testing.T) {
	assert.Equal(t, CategoryUnclassified, Shape("bogus").Category())
}
