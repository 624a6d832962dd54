package changes

// Diff computes the minimal set of changes that turns original into final.
func Diff(original, final map[string]string) ChangeSet {
	cs := make(ChangeSet, 0)

	for key, value := range final {
		before, exists := original[key]
		if !exists {
			cs = append(cs, Add(key, value))
		} else if before != value {
			cs = append(cs, Modify(key, before, value))
		}
	}

	for key, before := range original {
		if _, exists := final[key]; !exists {
			cs = append(cs, Delete(key, before))
		}
	}

	cs.sort()
	return cs
}

// diffKey computes the change of a single key, if any
func diffKey(key string, original, current map[string]string) (Change, bool) {
	before, hadBefore := original[key]
	after, hasAfter := current[key]
	switch {
	case !hadBefore && hasAfter:
		return Add(key, after), true
	case hadBefore && !hasAfter:
		return Delete(key, before), true
	case hadBefore && hasAfter && before != after:
		return Modify(key, before, after), true
	}
	return Change{}, false
}
