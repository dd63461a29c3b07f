package catalog

//go:generate go tool github.com/dmarkham/enumer -type=Category -trimprefix=Category -transform=lower -json -text

import "fmt"

// Category is the specialty an entity covers or a draw is requested for.
type Category uint8

const (
	CategoryUnknown    Category = iota
	CategoryPressure            // pressure equipment (boilers, vessels, pipelines)
	CategoryMechanical          // mechanical/electrical equipment (lifts, cranes)
	CategoryCombined            // covers every specialty
)

// Satisfies reports whether an entity of category c can serve a draw
// requested for category requested. Combined entities satisfy every
// specialty; nothing satisfies an unknown or combined request.
func (c Category) Satisfies(requested Category) bool {
	if !requested.IsSpecialty() {
		return false
	}
	switch c {
	case CategoryCombined:
		return true
	case CategoryPressure, CategoryMechanical:
		return c == requested
	case CategoryUnknown:
		return false
	}
	return false
}

// IsSpecialty is true for categories a draw can be requested for.
func (c Category) IsSpecialty() bool {
	switch c {
	case CategoryPressure, CategoryMechanical:
		return true
	case CategoryUnknown, CategoryCombined:
		return false
	}
	return false
}

// Specialties returns the specialties a target of category c needs a
// counterpart for, in draw order.
func (c Category) Specialties() []Category {
	switch c {
	case CategoryCombined:
		return []Category{CategoryPressure, CategoryMechanical}
	case CategoryPressure, CategoryMechanical:
		return []Category{c}
	case CategoryUnknown:
		return nil
	}
	return nil
}

// Specialties lists every category a draw can be requested for.
func Specialties() []Category {
	return []Category{CategoryPressure, CategoryMechanical}
}

// ParseSpecialty parses a draw category name. Unknown names and the
// combined category are rejected.
func ParseSpecialty(s string) (Category, error) {
	c, err := CategoryString(s)
	if err != nil {
		return CategoryUnknown, err
	}
	if !c.IsSpecialty() {
		return CategoryUnknown, fmt.Errorf("%q is not a draw category", s)
	}
	return c, nil
}
