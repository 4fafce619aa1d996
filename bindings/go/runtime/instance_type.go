package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTypeName is returned when a declared component type cannot be parsed.
	ErrInvalidTypeName = errors.New("invalid type name")
	// ErrMissingComponentType is returned when an instance does not declare its component type.
	ErrMissingComponentType = errors.New("instance does not declare a componentType")
)

// ArityMarker separates a generic base name from its parameter count,
// as in "Mod.ValueField`1".
const ArityMarker = "`"

// InstanceType is a parsed type string of the form
//
//	[Module]Namespace.TypeName<Arg1,Arg2>
//
// The module prefix and the argument list are optional. A trailing "?" marks
// a nullable type.
type InstanceType struct {
	Module    string
	Name      string
	Arguments []string
	Nullable  bool
}

// ParseInstanceType parses a declared type string.
func ParseInstanceType(s string) (InstanceType, error) {
	var it InstanceType
	raw := strings.TrimSpace(s)
	if strings.HasSuffix(raw, "?") {
		it.Nullable = true
		raw = strings.TrimSuffix(raw, "?")
	}
	if strings.HasPrefix(raw, "[") {
		end := strings.IndexByte(raw, ']')
		if end < 0 {
			return InstanceType{}, fmt.Errorf("%w %q: unterminated module prefix", ErrInvalidTypeName, s)
		}
		it.Module = raw[1:end]
		raw = raw[end+1:]
	}

	name := raw
	if open := strings.IndexByte(raw, '<'); open >= 0 {
		if !strings.HasSuffix(raw, ">") {
			return InstanceType{}, fmt.Errorf("%w %q: unterminated argument list", ErrInvalidTypeName, s)
		}
		args, err := SplitTypeArguments(raw[open+1 : len(raw)-1])
		if err != nil {
			return InstanceType{}, fmt.Errorf("%w %q: %w", ErrInvalidTypeName, s, err)
		}
		if len(args) == 0 {
			return InstanceType{}, fmt.Errorf("%w %q: empty argument list", ErrInvalidTypeName, s)
		}
		name = raw[:open]
		it.Arguments = args
	}

	if name == "" {
		return InstanceType{}, fmt.Errorf("%w %q: missing type name", ErrInvalidTypeName, s)
	}
	if strings.ContainsAny(name, "<>[],? ") {
		return InstanceType{}, fmt.Errorf("%w %q: unexpected character in type name", ErrInvalidTypeName, s)
	}
	it.Name = name
	return it, nil
}

// SplitTypeArguments splits a comma separated argument list at top level,
// leaving nested argument lists and module prefixes intact.
func SplitTypeArguments(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		args  []string
		angle int
		start int
	)
	inModule := false
	for i, r := range s {
		switch r {
		case '[':
			inModule = true
		case ']':
			inModule = false
		case '<':
			angle++
		case '>':
			angle--
			if angle < 0 {
				return nil, fmt.Errorf("unbalanced '>' at offset %d", i)
			}
		case ',':
			if angle == 0 && !inModule {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if angle != 0 {
		return nil, errors.New("unbalanced '<'")
	}
	args = append(args, strings.TrimSpace(s[start:]))
	for _, arg := range args {
		if arg == "" {
			return nil, errors.New("empty type argument")
		}
	}
	return args, nil
}

// IsGeneric reports whether the type carries an argument list or is written
// in arity form.
func (t InstanceType) IsGeneric() bool {
	return len(t.Arguments) > 0 || strings.Contains(t.Name, ArityMarker)
}

// BaseName is the qualified name without any arity marker.
func (t InstanceType) BaseName() string {
	return StripArity(t.Name)
}

// SimpleName is the last dot separated segment of the base name.
func (t InstanceType) SimpleName() string {
	return SimpleName(t.Name)
}

// Arity is the number of generic parameters the type declares.
func (t InstanceType) Arity() int {
	if len(t.Arguments) > 0 {
		return len(t.Arguments)
	}
	return ArityOf(t.Name)
}

// CanonicalName is the name the type is bucketed under.
// Concrete types keep their module prefix ("[Mod]Mod.AudioOutput") while
// generic types collapse to their arity form without it ("Mod.ValueField`1").
func (t InstanceType) CanonicalName() string {
	if t.IsGeneric() {
		return ArityName(t.BaseName(), t.Arity())
	}
	return QualifiedName(t.Module, t.Name)
}

// String renders the type in its declared form.
func (t InstanceType) String() string {
	var sb strings.Builder
	sb.WriteString(QualifiedName(t.Module, t.Name))
	if len(t.Arguments) > 0 {
		sb.WriteByte('<')
		sb.WriteString(strings.Join(t.Arguments, ","))
		sb.WriteByte('>')
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

// QualifiedName prefixes name with "[module]" when a module is given.
func QualifiedName(module, name string) string {
	if module == "" {
		return name
	}
	return "[" + module + "]" + name
}

// ArityName renders the backtick arity form of a generic base name.
func ArityName(base string, arity int) string {
	return StripArity(base) + ArityMarker + strconv.Itoa(arity)
}

// ArityOf returns the parameter count encoded in an arity form name or 0.
func ArityOf(name string) int {
	_, count, found := strings.Cut(name, ArityMarker)
	if !found {
		return 0
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// StripArity removes a trailing "`N" from name.
func StripArity(name string) string {
	base, _, _ := strings.Cut(name, ArityMarker)
	return base
}

// SimpleName returns the last dot separated segment of name with any module
// prefix, argument list or arity marker removed.
func SimpleName(name string) string {
	if end := strings.IndexByte(name, ']'); strings.HasPrefix(name, "[") && end >= 0 {
		name = name[end+1:]
	}
	if open := strings.IndexByte(name, '<'); open >= 0 {
		name = name[:open]
	}
	name = strings.TrimSuffix(StripArity(name), "?")
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		return name[dot+1:]
	}
	return name
}

// ArgumentSimpleName derives the identifier fragment used to name a generic
// variant after its type argument. Nullable arguments are prefixed with
// "nullable_" and nested arguments are appended with underscores, so
// "[Mod]Mod.Pair<int,float>?" becomes "nullable_Pair_int_float".
func ArgumentSimpleName(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasSuffix(arg, "?") {
		return "nullable_" + ArgumentSimpleName(strings.TrimSuffix(arg, "?"))
	}
	it, err := ParseInstanceType(arg)
	if err != nil {
		return sanitizeIdentifier(arg)
	}
	parts := []string{sanitizeIdentifier(it.SimpleName())}
	for _, nested := range it.Arguments {
		parts = append(parts, ArgumentSimpleName(nested))
	}
	return strings.Join(parts, "_")
}

func sanitizeIdentifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
