package extract

import "strings"

// containerGroup is a base expression shared by several references and
// forwarded as one object. Property is the base's last segment.
type containerGroup struct {
	Object   string
	Property string
}

// baseExpression is the text a candidate contributes to container tallies:
// a member's object, or the candidate's own text. Members on the bare
// instance and bound methods contribute nothing.
func baseExpression(c candidate) (string, bool) {
	switch c.kind {
	case refBoundMethod:
		return "", false
	case refMember:
		if c.onThis {
			return "", false
		}
		return c.object, true
	}
	return c.expr, true
}

// groupContainers finds base expressions referenced more than once. A base
// is dropped when it is a reserved aggregate or when one of its strict dot
// prefixes is itself a group, so groups never nest.
func groupContainers(cands []candidate) []containerGroup {
	counts := make(map[string]int)
	var order []string
	for _, c := range cands {
		base, ok := baseExpression(c)
		if !ok {
			continue
		}
		if counts[base] == 0 {
			order = append(order, base)
		}
		counts[base]++
	}

	retained := make(map[string]bool)
	for _, base := range order {
		if counts[base] > 1 && !reservedObjects[base] {
			retained[base] = true
		}
	}

	var groups []containerGroup
	for _, base := range order {
		if !retained[base] || hasRetainedPrefix(base, retained) {
			continue
		}
		groups = append(groups, containerGroup{
			Object:   base,
			Property: base[strings.LastIndex(base, ".")+1:],
		})
	}
	return groups
}

func hasRetainedPrefix(base string, retained map[string]bool) bool {
	for prefix, ok := parentBase(base); ok; prefix, ok = parentBase(prefix) {
		if retained[prefix] {
			return true
		}
	}
	return false
}

// parentBase drops the last segment of a member chain, treating "?." like
// ".": "a?.b.c" -> "a?.b" -> "a".
func parentBase(base string) (string, bool) {
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return "", false
	}
	return strings.TrimSuffix(base[:i], "?"), true
}

// matchGroup returns the group whose base the expression starts with, on a
// segment boundary.
func matchGroup(groups []containerGroup, expr string) (containerGroup, bool) {
	for _, g := range groups {
		if _, ok := segmentRest(g.Object, expr); ok {
			return g, true
		}
	}
	return containerGroup{}, false
}

// segmentRest returns what follows base in expr, including the leading
// "." or "?.", when expr is base or continues it on a segment boundary.
func segmentRest(base, expr string) (string, bool) {
	rest, ok := strings.CutPrefix(expr, base)
	if !ok {
		return "", false
	}
	if rest == "" || strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, "?.") {
		return rest, true
	}
	return "", false
}

// routeInGroup joins the group's prop name with the rest of the expression
// after the group base: "this.state.user.name" under this.state.user -> "user.name".
// Optional chaining is kept: "user?.name" under user -> "user?.name".
func routeInGroup(propName string, g containerGroup, expr string) string {
	rest, _ := segmentRest(g.Object, expr)
	return propName + rest
}
