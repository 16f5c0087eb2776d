package aigraph

import (
	"fmt"
	"strings"
)

// Category is the kind of diagram the model is asked for.
type Category string

const (
	CategoryFlowChart    Category = "Flow Chart"
	CategoryBlockDiagram Category = "Block Diagram"
	CategoryUML          Category = "UML Diagram"
	CategoryDecisionTree Category = "Decision Tree"
	CategoryMindMap      Category = "Mind Map"
	CategoryConceptMap   Category = "Concept Map"
)

// DefaultCategory is preselected in the editor.
const DefaultCategory = CategoryFlowChart

// AllCategories lists the categories in menu order.
var AllCategories = []Category{
	CategoryFlowChart,
	CategoryBlockDiagram,
	CategoryUML,
	CategoryDecisionTree,
	CategoryMindMap,
	CategoryConceptMap,
}

func (c Category) String() string { return string(c) }

// Valid reports whether c is one of AllCategories.
func (c Category) Valid() bool {
	for _, k := range AllCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Slug is the kebab-case form used on the command line.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}

// Next cycles to the following category.
func (c Category) Next() Category {
	for i, k := range AllCategories {
		if c == k {
			return AllCategories[(i+1)%len(AllCategories)]
		}
	}
	return DefaultCategory
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// ParseCategory accepts a label ("Mind Map"), a slug ("mind-map") or the
// label without its "Diagram" suffix ("uml").
func ParseCategory(s string) (Category, error) {
	key := squash(strings.TrimSpace(s))
	if key == "" {
		return "", fmt.Errorf("empty diagram category")
	}
	for _, c := range AllCategories {
		if key == squash(string(c)) || key == squash(strings.TrimSuffix(string(c), " Diagram")) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown diagram category %q", s)
}
