package parser

import (
	"errors"
	"fmt"
)

// ErrStructure is matched by every StructureError.
var ErrStructure = errors.New("unexpected page structure")

// StructureError reports an element or attribute missing from a page.
type StructureError struct {
	Site     string
	Selector string
	Attr     string
}

func (e *StructureError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("%s: %v: %q has no %q attribute", e.Site, ErrStructure, e.Selector, e.Attr)
	}
	return fmt.Sprintf("%s: %v: no element matches %q", e.Site, ErrStructure, e.Selector)
}

func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}
