package domain

import "strings"

// CountrySet is an immutable snapshot of the country table keyed by
// ISO 3166-1 alpha-2 code. Rule determination reads membership flags
// from here instead of hitting the database per call.
type CountrySet struct {
	byCode map[string]Country
}

func NewCountrySet(countries []Country) *CountrySet {
	byCode := make(map[string]Country, len(countries))
	for _, c := range countries {
		byCode[strings.ToUpper(c.Code)] = c
	}
	return &CountrySet{byCode: byCode}
}

func (s *CountrySet) Get(code string) (Country, bool) {
	c, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

func (s *CountrySet) IsEUMember(code string) bool {
	c, ok := s.Get(code)
	return ok && c.IsEUMember
}

func (s *CountrySet) IsEEAMember(code string) bool {
	c, ok := s.Get(code)
	return ok && c.IsEEAMember
}

// Known reports whether the code resolves to a seeded country at all.
func (s *CountrySet) Known(code string) bool {
	_, ok := s.Get(code)
	return ok
}

func (s *CountrySet) Len() int { return len(s.byCode) }
