package cmp

func SliceEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for nth, va := range a {
		if va != b[nth] {
			return false
		}
	}
	return true
}

func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}

	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}

	return true
}

// Check a and b have same contents, ignoring ordering.
func SliceContentEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))
nextA:
	for _, va := range a {
		for nth, vb := range b {
			if used[nth] {
				continue
			}
			if pred(va, vb) {
				used[nth] = true
				continue nextA
			}
		}
		return false
	}
	return true
}
