package catalog

// primitiveAliases maps internal integer spellings to the names users write.
var primitiveAliases = map[string]string{
	"Int16": "Short",
	"Int32": "Integer",
	"Int64": "Long",
}

// NormalizeType returns the canonical spelling of a type name. Canonical names
// never appear as alias keys, so applying it twice equals applying it once.
func NormalizeType(name string) string {
	if canonical, ok := primitiveAliases[name]; ok {
		return canonical
	}

	return name
}
