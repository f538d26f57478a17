package domain

// Category is the structural kind inferred for a snippet.
type Category string

const (
	CategoryNamedFunction Category = "named-function"
	CategoryArrowFunction Category = "arrow-function"
	CategoryClass         Category = "class-definition"
	CategoryLoop          Category = "loop"
	CategoryConditional   Category = "conditional"
	CategoryVariable      Category = "variable-declaration"
	CategoryUnclassified  Category = "unclassified-code"
)

// Shape refines a Category for the substring cascade, e.g. an addition function.
type Shape string

const (
	ShapeAddition       Shape = "addition"
	ShapeSubtraction    Shape = "subtraction"
	ShapeMultiplication Shape = "multiplication"
	ShapeDivision       Shape = "division"
	ShapeFunction       Shape = "function"
	ShapeClass          Shape = "class"
	ShapeVariable       Shape = "variable"
	ShapeConditional    Shape = "conditional"
	ShapeLoop           Shape = "loop"
	ShapeUnknown        Shape = "unknown"
)

var shapeCategories = map[Shape]Category{
	ShapeAddition:       CategoryNamedFunction,
	ShapeSubtraction:    CategoryNamedFunction,
	ShapeMultiplication: CategoryNamedFunction,
	ShapeDivision:       CategoryNamedFunction,
	ShapeFunction:       CategoryNamedFunction,
	ShapeClass:          CategoryClass,
	ShapeVariable:       CategoryVariable,
	ShapeConditional:    CategoryConditional,
	ShapeLoop:           CategoryLoop,
	ShapeUnknown:        CategoryUnclassified,
}

// Category maps the shape to its structural category.
func (s Shape) Category() Category {
	if c, ok := shapeCategories[s]; ok {
		return c
	}
	return CategoryUnclassified
}
