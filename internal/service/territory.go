package service

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// MaxTerritoryMatches столько вариантов показываем при неоднозначном вводе
const MaxTerritoryMatches = 25

// Territory страна или территория ISO 3166
type Territory struct {
	Code string // US
	Name string // United States
}

// Территории, где короткая дата пишется месяцем вперёд (10/25/22)
var monthFirstTerritories = map[string]bool{
	"US": true,
	"AS": true,
	"GU": true,
	"MH": true,
	"MP": true,
	"PR": true,
	"UM": true,
	"VI": true,
}

var (
	territoriesOnce sync.Once
	territories     []Territory
)

// allTerritories перебирает двухбуквенные коды, известные x/text
func allTerritories() []Territory {
	territoriesOnce.Do(func() {
		namer := display.English.Regions()
		seen := make(map[string]bool)
		for a := 'A'; a <= 'Z'; a++ {
			for b := 'A'; b <= 'Z'; b++ {
				code := string([]rune{a, b})
				region, err := language.ParseRegion(code)
				if err != nil || !region.IsCountry() {
					continue
				}
				// Устаревшие коды (UK) сводятся к каноническим (GB)
				if seen[region.String()] {
					continue
				}
				name := namer.Name(region)
				if name == "" {
					continue
				}
				seen[region.String()] = true
				territories = append(territories, Territory{Code: region.String(), Name: name})
			}
		}
		sort.Slice(territories, func(i, j int) bool {
			return territories[i].Name < territories[j].Name
		})
	})
	return territories
}

// FindTerritories ищет территории по подстроке названия или по коду
func FindTerritories(query string) []Territory {
	query = strings.ToLower(strings.TrimSpace(query))

	var matches []Territory
	for _, t := range allTerritories() {
		if strings.Contains(strings.ToLower(t.Name), query) || strings.ToLower(t.Code) == query {
			matches = append(matches, t)
			if len(matches) == MaxTerritoryMatches {
				break
			}
		}
	}
	return matches
}

// ResolveTerritory находит ровно одну территорию по коду или названию
func ResolveTerritory(query string) (Territory, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Territory{}, ErrUnknownTerritory
	}

	for _, t := range allTerritories() {
		if strings.EqualFold(t.Code, query) || strings.EqualFold(t.Name, query) {
			return t, nil
		}
	}

	matches := FindTerritories(query)
	if len(matches) == 1 {
		return matches[0], nil
	}
	return Territory{}, ErrUnknownTerritory
}

// IsMonthFirstTerritory определяет порядок полей в короткой дате
func IsMonthFirstTerritory(code string) bool {
	return monthFirstTerritories[strings.ToUpper(code)]
}
