package config

import (
	"errors"
	"regexp"
	"strconv"

	"meta/internal/rtti"
	"meta/internal/types"
	"meta/internal/vars"
)

var (
	intLit   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatLit = regexp.MustCompile(`^([+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?|[+-]?(?i:inf|infinity)|(?i:nan))$`)
)

// Assign parses literal according to the leaf's type and stores it into the
// leaf's data window.
func Assign(n vars.Node, path, literal string) *Error {
	if !n.IsLeaf() {
		return errorf(TypeMismatch, "%s is a section, not a value", path)
	}
	t := n.Type()
	u := t.Underlying()
	switch u.Kind {
	case types.KindInteger:
		if !intLit.MatchString(literal) {
			if floatLit.MatchString(literal) {
				return errorf(TypeMismatch, "%s: expected integer (%s) but got %s", path, t.Name, literal)
			}
			return errorf(Malformed, "%s: malformed integer literal %q", path, literal)
		}
		v, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return errorf(Malformed, "%s: %s out of range for %s", path, literal, t.Name)
		}
		if err := rtti.PutInt(n.Data(), t, v); err != nil {
			if errors.Is(err, rtti.ErrRange) {
				return errorf(Malformed, "%s: %s out of range for %s", path, literal, t.Name)
			}
			return errorf(Unsupported, "%s: %v", path, err)
		}
	case types.KindFloat:
		if !floatLit.MatchString(literal) {
			return errorf(Malformed, "%s: malformed float literal %q", path, literal)
		}
		v, err := strconv.ParseFloat(literal, u.Bits)
		if err != nil {
			return errorf(Malformed, "%s: %s out of range for %s", path, literal, t.Name)
		}
		if err := rtti.PutFloat(n.Data(), t, v); err != nil {
			return errorf(Malformed, "%s: %v", path, err)
		}
	case types.KindBool:
		return errorf(Unsupported, "%s: bool values are not supported yet", path)
	default:
		return errorf(Unsupported, "%s: %s values are not supported", path, t.Name)
	}
	return nil
}

// Format renders a leaf's current value as a literal Assign accepts. ok is
// false for leaves the config format cannot express.
func Format(n vars.Node) (string, bool) {
	if !n.IsLeaf() {
		return "", false
	}
	t := n.Type()
	switch t.Underlying().Kind {
	case types.KindInteger:
		v, err := rtti.GetInt(n.Data(), t)
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(v, 10), true
	case types.KindFloat:
		v, err := rtti.GetFloat(n.Data(), t)
		if err != nil {
			return "", false
		}
		return rtti.FormatFloat(v, t.Underlying().Bits), true
	}
	return "", false
}
