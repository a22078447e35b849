package beam

// createFn flattens a literal slice into individual elements. The values
// field is unexported so construction treats it as configuration rather
// than a pipeline output.
type createFn[E Element] struct {
	values []E

	Output PCol[E]
}

func (fn *createFn[E]) ProcessBundle(dfc *DFC[[]byte]) error {
	return dfc.Process(func(ec ElmC, _ []byte) error {
		for _, v := range fn.values {
			fn.Output.Emit(ec, v)
		}
		return nil
	})
}

// Create produces the caller's literal values as a collection, unmodified
// and in order. It's the in memory record source every pipeline here starts
// from. An empty call is valid and produces an empty collection.
func Create[E Element](s *Scope, values ...E) PCol[E] {
	imp := Impulse(s)
	out := ParDo(s, imp, &createFn[E]{values: values}, Name("beam.Create"))
	return out.Output
}
