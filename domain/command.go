package domain

import (
	"fmt"
	"strings"
)

// SynthesizeCommand renders a shell command, or an instruction block when no
// direct invocation can be derived, for the snippet. It always returns output;
// a failure while matching degrades to an error-annotated comment.
func SynthesizeCommand(snippet Snippet, lang LanguageTag) (command string) {
	defer func() {
		if r := recover(); r != nil {
			command = fmt.Sprintf("# Error generating command: %v\n# Selected code:\n%s", r, snippet.Content)
		}
	}()

	return renderCommand(snippet, lang)
}

// renderCommand dispatches on language. It is a variable so tests can force
// the recovery path.
var renderCommand = func(snippet Snippet, lang LanguageTag) string {
	fileName := snippet.FileName()
	switch {
	case lang.IsJavaScriptFamily():
		return javaScriptCommand(snippet.Content, fileName, lang)
	case lang == LanguagePython:
		return pythonCommand(snippet.Content, fileName)
	case lang == LanguageJava:
		return javaCommand(snippet.Content, fileName, snippet.StartLine)
	default:
		return genericCommand(snippet.Content, fileName, snippet.StartLine)
	}
}

func javaScriptCommand(code, fileName string, lang LanguageTag) string {
	clean := strings.TrimSpace(code)
	c := Classify(clean, lang)

	switch c.Match {
	case MatchNamedFunction:
		if len(c.Params) == 0 {
			return fmt.Sprintf(`node -e "const result = require('./%s').%s(); console.log(result)"`, fileName, c.FunctionName)
		}
		return fmt.Sprintf("# Function %s requires parameters: %s\n", c.FunctionName, strings.Join(c.Params, ", ")) +
			fmt.Sprintf(`node -e "const mod = require('./%s'); console.log(mod.%s(...process.argv.slice(2)))" param1 param2`, fileName, c.FunctionName)
	case MatchArrowFunction:
		return fmt.Sprintf(`node -e "console.log(require('./%s').%s())"`, fileName, c.FunctionName)
	}

	return `node -e "` + inlineBody(clean) + `"`
}

func pythonCommand(code, fileName string) string {
	clean := strings.TrimSpace(code)

	// def only; JavaScript patterns never apply to python.
	if m := pythonFunctionPattern.FindStringSubmatch(clean); m != nil {
		module := strings.TrimSuffix(fileName, ".py")
		return fmt.Sprintf(`python -c "import %s; print(%s.%s())"`, module, module, m[1])
	}

	return `python -c "` + inlineBody(clean) + `"`
}

func javaCommand(code, fileName string, line int) string {
	return fmt.Sprintf("# Java code at line %d\n", line) +
		fmt.Sprintf("# Compile: javac %s\n", fileName) +
		fmt.Sprintf("# Run: java %s\n", strings.TrimSuffix(fileName, ".java")) +
		"# Selected code:\n" + code
}

func genericCommand(code, fileName string, line int) string {
	return fmt.Sprintf("# Code from %s:%d\n", fileName, line) +
		"# Execute appropriately for your environment\n" +
		code
}

// inlineBody escapes double quotes and joins lines with "; " so the code fits
// inside a single quoted -e / -c argument.
func inlineBody(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, `"`, `\"`)
	return strings.ReplaceAll(code, "\n", "; ")
}
