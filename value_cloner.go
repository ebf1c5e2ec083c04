package slidingcache

// ValueCloner is an interface for cloning values.
// The cache uses it when building snapshots via Entries, so mutating a
// snapshot value cannot reach the cached one.
// The CloneValue method should return a deep copy of the input value.
type ValueCloner[V ValueConstraint] interface {
	CloneValue(V) V
}

// ValueClonerFunc is a function type that implements the ValueCloner interface.
type ValueClonerFunc[V ValueConstraint] func(v V) V

// CloneValue calls the function.
func (f ValueClonerFunc[V]) CloneValue(v V) V {
	return f(v)
}

// NopValueCloner is a value cloner that does not clone values.
// It is the default: cached values are commonly live handles (connections,
// sessions) that the disposal function must see, so copies would be wrong.
type NopValueCloner[V ValueConstraint] struct{}

// CloneValue returns the input value.
func (NopValueCloner[V]) CloneValue(v V) V {
	return v
}

// DetectValueCloner returns a cloner for the given value type.
// If the value type has a Clone or DeepCopy method, the returned cloner uses
// it; otherwise it falls back to NopValueCloner.
func DetectValueCloner[V ValueConstraint]() ValueCloner[V] {
	var zero V
	return detectValueClonerAny[V](zero)
}

func detectValueClonerAny[V ValueConstraint](v any) ValueCloner[V] {
	type cloner interface {
		Clone() V
	}
	type deepCopier interface {
		DeepCopy() V
	}

	switch v.(type) {
	case cloner:
		return ValueClonerFunc[V](func(v V) V {
			var a any = v
			return a.(cloner).Clone()
		})

	case deepCopier:
		return ValueClonerFunc[V](func(v V) V {
			var a any = v
			return a.(deepCopier).DeepCopy()
		})

	default:
		return NopValueCloner[V]{}
	}
}
