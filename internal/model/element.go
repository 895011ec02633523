package model

import (
	"fmt"
	"strings"
)

// Element is a combat damage type. Every unit deals damage of its own element.
type Element uint8

const (
	Physical Element = iota
	Fire
	Ice
	Lightning
	Wind
	Quantum
	Imaginary

	elementCount
)

var elementNames = [elementCount]string{
	Physical:  "physical",
	Fire:      "fire",
	Ice:       "ice",
	Lightning: "lightning",
	Wind:      "wind",
	Quantum:   "quantum",
	Imaginary: "imaginary",
}

// Elements lists all elements in declaration order.
func Elements() []Element {
	out := make([]Element, 0, elementCount)
	for e := Element(0); e < elementCount; e++ {
		out = append(out, e)
	}
	return out
}

func (e Element) String() string {
	if e >= elementCount {
		return fmt.Sprintf("element(%d)", uint8(e))
	}
	return elementNames[e]
}

// ParseElement parses a case-insensitive element name.
func ParseElement(s string) (Element, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range elementNames {
		if name == s {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Element) UnmarshalText(b []byte) error {
	v, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ElementSet is a bit set of elements (enemy weaknesses).
type ElementSet uint16

// NewElementSet builds a set from the given elements.
func NewElementSet(els ...Element) ElementSet {
	var s ElementSet
	for _, e := range els {
		s = s.With(e)
	}
	return s
}

func (s ElementSet) Has(e Element) bool        { return s&(1<<e) != 0 }
func (s ElementSet) With(e Element) ElementSet { return s | 1<<e }

// Slice returns the members in declaration order.
func (s ElementSet) Slice() []Element {
	var out []Element
	for e := Element(0); e < elementCount; e++ {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s ElementSet) MarshalYAML() (any, error) {
	names := make([]string, 0, elementCount)
	for _, e := range s.Slice() {
		names = append(names, e.String())
	}
	return names, nil
}

func (s *ElementSet) UnmarshalYAML(unmarshal func(any) error) error {
	var names []string
	if err := unmarshal(&names); err != nil {
		return err
	}
	var out ElementSet
	for _, n := range names {
		e, err := ParseElement(n)
		if err != nil {
			return err
		}
		out = out.With(e)
	}
	*s = out
	return nil
}
