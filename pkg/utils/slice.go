package utils

import (
	"sort"
)

// map each element in sli.
//
// args:
//   - sli : slice of `T`s
//   - mapper : mapping function from T to R
//
// return:
//
//	slice of `R`s.
//	each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// convert slice to map.
//
// If keys given with getkey collides, a value coming latter takes over previous.
func ToMap[T any, K comparable](sli []T, getkey func(v T) K) map[K]T {
	m := map[K]T{}

	for _, v := range sli {
		m[getkey(v)] = v
	}

	return m
}

// filter elements match with predicator
//
// args:
//
// - vs: slice
//
// - predicator: function returns true for each element to be remain in result
//
// returns:
//
// - []T: elements in vs which predicator evaluates as true.
func Filter[T any](vs []T, predicator func(T) bool) []T {
	ret := []T{}
	if len(vs) == 0 {
		return ret
	}

	for _, v := range vs {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// find first element match with predicator.
//
// args:
//   - sli: slice to be scannd
//   - predicator: function return true iff given value is your searching one.
//
// retruns:
//
//	(T, true) if found. otherwise, (zero value of T, false)
func First[T any](sli []T, predicator func(T) bool) (T, bool) {
	for _, v := range sli {
		if predicator(v) {
			return v, true
		}
	}

	var zero T
	return zero, false
}

// apply all modifier operator
//
// args:
//   - value : modification subject
//   - modifier : modifier operator, which takes `*T` value and update it.
//
// returns:
//
//	value after modifier applied
func ApplyAll[T any](value *T, modifier ...func(*T) *T) *T {
	for _, mod := range modifier {
		value = mod(value)
	}
	return value
}

// sort slice. this does non-stable sort.
//
// args:
//   - []T : slice to be sorted
//   - less : ordering function. see: `sort.Interface.Less`
func Sorted[T any](sli []T, less func(a, b T) bool) []T {
	sorted := make([]T, len(sli))
	copy(sorted, sli)

	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// flatten map to slice of its keys.
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}
