package args

import (
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Argslice is a repeatable string flag.
type Argslice []string

func (a *Argslice) String() string {
	if a == nil {
		return ""
	}
	return strings.Join(*a, ",")
}

func (a *Argslice) Set(s string) error {
	*a = append(*a, s)
	return nil
}

// Quantities is a repeatable flag holding "NAME=QUANTITY" pairs,
// like "gpu=2" or "memory=80Gi".
//
// Quantities are parsed with k8s.io/apimachinery resource.Quantity.
type Quantities map[string]resource.Quantity

func (q *Quantities) String() string {
	if q == nil {
		return ""
	}
	pairs := make([]string, 0, len(*q))
	for name, quantity := range *q {
		pairs = append(pairs, name+"="+quantity.String())
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (q *Quantities) Set(s string) error {
	name, expr, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("should be NAME=QUANTITY: %s", s)
	}
	quantity, err := resource.ParseQuantity(expr)
	if err != nil {
		return fmt.Errorf("quantity of %s: %w", name, err)
	}
	if *q == nil {
		*q = Quantities{}
	}
	(*q)[name] = quantity
	return nil
}
