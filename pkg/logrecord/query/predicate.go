package query

// Predicate is a node of the duplicate-existence query. The tree renders to
// the Elasticsearch bool-query DSL consumed by the storage client, so it can
// be unit-tested without executing anything.
type Predicate interface {
	Clause() map[string]interface{}
}

type Equals struct {
	Field string
	Value interface{}
}

func (e Equals) Clause() map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{
			e.Field: e.Value,
		},
	}
}

// Range matches documents whose field lies within the given bounds. Nil
// bounds are open.
type Range struct {
	Field string
	Gte   interface{}
	Lte   interface{}
}

func (r Range) Clause() map[string]interface{} {
	bounds := map[string]interface{}{}
	if r.Gte != nil {
		bounds["gte"] = r.Gte
	}
	if r.Lte != nil {
		bounds["lte"] = r.Lte
	}
	return map[string]interface{}{
		"range": map[string]interface{}{
			r.Field: bounds,
		},
	}
}

type And struct {
	Predicates []Predicate
}

func (a And) Clause() map[string]interface{} {
	must := make([]map[string]interface{}, len(a.Predicates))
	for i, p := range a.Predicates {
		must[i] = p.Clause()
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": must,
		},
	}
}

type Or struct {
	Predicates []Predicate
}

func (o Or) Clause() map[string]interface{} {
	should := make([]map[string]interface{}, len(o.Predicates))
	for i, p := range o.Predicates {
		should[i] = p.Clause()
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
}

// CountQuery wraps a predicate into the body expected by the count endpoint.
func CountQuery(p Predicate) map[string]interface{} {
	return map[string]interface{}{
		"query": p.Clause(),
	}
}
