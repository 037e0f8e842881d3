package domain

// Object is a declaration that can be registered in a project.
type Object interface {
	GetName() string
	GetKind() string
}

type reference interface {
	isReference() bool
}

// IsReference reports whether o only names an object declared elsewhere, as
// built by EntityRef and SourceRef.
func IsReference(o Object) bool {
	if r, ok := o.(reference); ok {
		return r.isReference()
	}
	return false
}
