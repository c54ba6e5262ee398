package domain

import (
	"fmt"
	"math/bits"
	"strings"
)

// StyleToken is one togglable title style.
type StyleToken uint8

const (
	StyleFontNormal StyleToken = iota
	StyleFontBold
	StyleFontExtrabold
	StyleItalic
	StyleUppercase
	StyleLowercase
	StyleFontSerif
	StyleFontMono
	StyleTrackingTight
	StyleTrackingWide
	StyleLeadingTight
	StyleLeadingLoose

	styleTokenCount
)

var styleTokenNames = [styleTokenCount]string{
	StyleFontNormal:    "font-normal",
	StyleFontBold:      "font-bold",
	StyleFontExtrabold: "font-extrabold",
	StyleItalic:        "italic",
	StyleUppercase:     "uppercase",
	StyleLowercase:     "lowercase",
	StyleFontSerif:     "font-serif",
	StyleFontMono:      "font-mono",
	StyleTrackingTight: "tracking-tight",
	StyleTrackingWide:  "tracking-wide",
	StyleLeadingTight:  "leading-tight",
	StyleLeadingLoose:  "leading-loose",
}

func (t StyleToken) String() string {
	if t >= styleTokenCount {
		return fmt.Sprintf("StyleToken(%d)", uint8(t))
	}
	return styleTokenNames[t]
}

func (t StyleToken) Valid() bool {
	return t < styleTokenCount
}

// StyleTokens returns the full token catalog in display order.
func StyleTokens() []StyleToken {
	out := make([]StyleToken, 0, styleTokenCount)
	for t := StyleToken(0); t < styleTokenCount; t++ {
		out = append(out, t)
	}
	return out
}

func ParseStyleToken(s string) (StyleToken, error) {
	s = strings.TrimSpace(s)
	for t, name := range styleTokenNames {
		if name == s {
			return StyleToken(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyleToken, s)
}

// StyleSet is an unordered set of style tokens. The zero value is empty.
// It is a plain value, so copies never share membership.
type StyleSet uint16

func NewStyleSet(tokens ...StyleToken) StyleSet {
	var s StyleSet
	for _, t := range tokens {
		s = s.Add(t)
	}
	return s
}

// ParseStyleSet reads a space separated token list. Order and repeats are
// irrelevant; unknown tokens make the whole parse fail.
func ParseStyleSet(s string) (StyleSet, error) {
	var set StyleSet
	for _, field := range strings.Fields(s) {
		t, err := ParseStyleToken(field)
		if err != nil {
			return 0, err
		}
		set = set.Add(t)
	}
	return set, nil
}

func (s StyleSet) Has(t StyleToken) bool {
	return t.Valid() && s&(1<<t) != 0
}

func (s StyleSet) Add(t StyleToken) StyleSet {
	if !t.Valid() {
		return s
	}
	return s | 1<<t
}

func (s StyleSet) Remove(t StyleToken) StyleSet {
	if !t.Valid() {
		return s
	}
	return s &^ (1 << t)
}

func (s StyleSet) Toggle(t StyleToken) StyleSet {
	if s.Has(t) {
		return s.Remove(t)
	}
	return s.Add(t)
}

func (s StyleSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Tokens lists members in catalog order.
func (s StyleSet) Tokens() []StyleToken {
	out := make([]StyleToken, 0, s.Len())
	for t := StyleToken(0); t < styleTokenCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s StyleSet) String() string {
	tokens := s.Tokens()
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = t.String()
	}
	return strings.Join(names, " ")
}
