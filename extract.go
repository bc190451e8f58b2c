package jsonvet

// ExtractInvalidNode walks doc along err's path and returns the deepest node
// reached. Object segments match keys exactly; array segments must parse as
// in-range indices. When a segment cannot be followed the last reached
// ancestor is returned.
func ExtractInvalidNode(err ValidationError, doc Node) Node {
	cur := doc
	for _, seg := range err.Path {
		switch KindOf(cur) {
		case KindObject:
			next, ok := ObjectGet(cur, seg, false)
			if !ok {
				return cur
			}
			cur = next
		case KindArray:
			arr, _ := ArrayElems(cur)
			i, ok := ParseIndex(seg)
			if !ok || i >= len(arr) {
				return cur
			}
			cur = arr[i]
		default:
			return cur
		}
	}
	return cur
}
