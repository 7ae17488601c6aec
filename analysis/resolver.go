package analysis

import "github.com/stnescript/stne/catalog"

// TypeLookup finds catalog types by exact name. Both *catalog.Catalog and
// *catalog.Snapshot satisfy it; completion passes a snapshot so that one
// request never observes two catalog generations.
type TypeLookup interface {
	Lookup(name string) (*catalog.TypeEntry, bool)
}

// Resolve walks chain against the catalog and returns the type whose members
// should be suggested. documentText is the text the root symbol is searched in.
//
// The root is a function call, a variable or a parameter. Every later segment
// except the trailing empty one is a member name, optionally with a call
// suffix, and is followed through the member's declared type. The first member
// with a matching name is taken and a failed step is never retried.
func Resolve(types TypeLookup, chain []string, documentText string) (*catalog.TypeEntry, bool) {
	if types == nil || len(chain) == 0 {
		return nil, false
	}

	current, ok := resolveRoot(types, chain[0], documentText)
	if !ok {
		return nil, false
	}

	if len(chain) <= 2 {
		return current, true
	}

	for _, segment := range chain[1 : len(chain)-1] {
		member, ok := current.Member(memberName(segment))
		if !ok {
			return nil, false
		}

		current, ok = lookup(types, member.DeclaredType)
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func resolveRoot(types TypeLookup, root, documentText string) (*catalog.TypeEntry, bool) {
	if token := ClassifyToken(root); token.IsCall {
		fn := FindFunction(token.Callee, documentText)
		if !fn.Found || fn.Type == "" {
			return nil, false
		}

		return lookup(types, fn.Type)
	}

	if v := FindVariable(root, documentText); v.Found && v.Type != "" {
		return lookup(types, v.Type)
	}

	if p := FindParameter(root, documentText); p.Found && p.Type != "" {
		return lookup(types, p.Type)
	}

	return nil, false
}

// lookup resolves a type name written in a script or catalog, accepting the
// internal integer spellings as well.
func lookup(types TypeLookup, name string) (*catalog.TypeEntry, bool) {
	if name == "" {
		return nil, false
	}

	return types.Lookup(catalog.NormalizeType(name))
}
