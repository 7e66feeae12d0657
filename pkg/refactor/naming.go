package refactor

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// csharpKeywords are the reserved words that cannot be used as a bare identifier.
var csharpKeywords = map[string]struct{}{
	"abstract": {}, "as": {}, "base": {}, "bool": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "checked": {}, "class": {}, "const": {}, "continue": {},
	"decimal": {}, "default": {}, "delegate": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "event": {}, "explicit": {}, "extern": {}, "false": {}, "finally": {},
	"fixed": {}, "float": {}, "for": {}, "foreach": {}, "goto": {}, "if": {}, "implicit": {},
	"in": {}, "int": {}, "interface": {}, "internal": {}, "is": {}, "lock": {}, "long": {},
	"namespace": {}, "new": {}, "null": {}, "object": {}, "operator": {}, "out": {},
	"override": {}, "params": {}, "private": {}, "protected": {}, "public": {},
	"readonly": {}, "ref": {}, "return": {}, "sbyte": {}, "sealed": {}, "short": {},
	"sizeof": {}, "stackalloc": {}, "static": {}, "string": {}, "struct": {}, "switch": {},
	"this": {}, "throw": {}, "true": {}, "try": {}, "typeof": {}, "uint": {}, "ulong": {},
	"unchecked": {}, "unsafe": {}, "ushort": {}, "using": {}, "virtual": {}, "void": {},
	"volatile": {}, "while": {},
}

// lowerCamel lower-cases the first rune of a property name to form its
// parameter name, escaping the result when it is a keyword.
func lowerCamel(name string) string {
	name = strings.TrimPrefix(name, "@")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	out := string(unicode.ToLower(r)) + name[size:]
	if _, kw := csharpKeywords[out]; kw {
		return "@" + out
	}
	return out
}

// bareName strips the verbatim-identifier prefix.
func bareName(name string) string { return strings.TrimPrefix(name, "@") }

// nameSet hands out parameter names that are unique within one parameter list.
type nameSet map[string]struct{}

// claim returns name, or name suffixed with the lowest free counter starting at 2.
func (s nameSet) claim(name string) string {
	out := name
	for i := 2; ; i++ {
		if _, taken := s[bareName(out)]; !taken {
			break
		}
		out = name + strconv.Itoa(i)
	}
	s[bareName(out)] = struct{}{}
	return out
}
