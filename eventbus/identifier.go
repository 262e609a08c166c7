package eventbus

import (
	"fmt"
	"reflect"
)

// Namer may be implemented by an event type to override its identifier.
// EventName is called on the zero value of the type, so it must be implemented with a value receiver and must not depend on field values.
type Namer interface {
	EventName() string
}

var namerType = reflect.TypeFor[Namer]()

// Identifier returns the identifier of event type E, which is "<package path>.<type name>" unless E implements [Namer].
// An empty string is returned if E can't be an event type.
func Identifier[E any]() string {
	id, _ := identifierFor(reflect.TypeFor[E]())
	return id
}

// IdentifierOf returns the identifier of the dynamic type of evt.
func IdentifierOf(evt any) (string, error) {
	if evt == nil {
		return "", fmt.Errorf("%w: nil event", ErrInvalidArgument)
	}
	return identifierFor(reflect.TypeOf(evt))
}

func identifierFor(t reflect.Type) (string, error) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return "", fmt.Errorf("%w: %s is not a value type", ErrInvalidEventType, t)
	}
	if len(t.Name()) == 0 {
		return "", fmt.Errorf("%w: %s is not a named type", ErrInvalidEventType, t)
	}
	if len(t.PkgPath()) == 0 {
		return "", fmt.Errorf("%w: predeclared type %s can't be an event", ErrInvalidEventType, t)
	}
	if t.Implements(namerType) {
		name := reflect.Zero(t).Interface().(Namer).EventName()
		if len(name) > 0 {
			return name, nil
		}
	}
	return t.PkgPath() + "." + t.Name(), nil
}
