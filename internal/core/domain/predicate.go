package domain

// Predicate is the small filter algebra spoken at the store boundary.
// Executors build predicates from criteria; the store adapter translates
// them into its native filter syntax. Nothing richer than this algebra is
// ever required of a store implementation.
type PredicateOp string

const (
	OpEquals   PredicateOp = "equals"
	OpContains PredicateOp = "contains"
	OpGte      PredicateOp = "gte"
	OpLte      PredicateOp = "lte"
	OpAnyOf    PredicateOp = "any_of"
	OpAllOf    PredicateOp = "all_of"
)

type Predicate struct {
	Op       PredicateOp
	Field    string
	Value    any
	Children []Predicate
}

// IsZero reports an unconstrained predicate (match everything).
func (p Predicate) IsZero() bool {
	return p.Op == "" && p.Field == "" && p.Value == nil && len(p.Children) == 0
}

func Equals(field string, value any) Predicate {
	return Predicate{Op: OpEquals, Field: field, Value: value}
}

func Contains(field string, value string) Predicate {
	return Predicate{Op: OpContains, Field: field, Value: value}
}

func Gte(field string, value any) Predicate {
	return Predicate{Op: OpGte, Field: field, Value: value}
}

func Lte(field string, value any) Predicate {
	return Predicate{Op: OpLte, Field: field, Value: value}
}

func AnyOf(children ...Predicate) Predicate {
	if len(children) == 1 {
		return children[0]
	}
	return Predicate{Op: OpAnyOf, Children: children}
}

func AllOf(children ...Predicate) Predicate {
	if len(children) == 1 {
		return children[0]
	}
	return Predicate{Op: OpAllOf, Children: children}
}
