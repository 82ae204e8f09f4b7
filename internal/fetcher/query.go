package fetcher

import (
	"fmt"
	"strings"
)

const BaseURL = "https://api.github.com/search/repositories"

// QueryFilter er én søkeklausul. Flere verdier gir flere key:value-ledd,
// i samme rekkefølge som de står i Values.
type QueryFilter struct {
	Key    string
	Values []string
}

// APIParams er paginerings- og sorteringsparametrene til search-API-et.
type APIParams struct {
	Sort    string
	Order   string
	PerPage int
	Page    int
}

// DefaultFilters returnerer en fersk kopi av standardfiltrene, slik at
// per-dato-spesialisering aldri lekker mellom iterasjoner.
func DefaultFilters() []QueryFilter {
	return []QueryFilter{
		{Key: "is", Values: []string{"public"}},
		{Key: "archived", Values: []string{"false"}},
		{Key: "size", Values: []string{">=500"}},
		{Key: "stars", Values: []string{">=1"}},
		{Key: "forks", Values: []string{">=1"}},
		{Key: "has", Values: []string{"readme", "license"}},
	}
}

// DefaultParams returnerer en fersk kopi av standardparametrene.
func DefaultParams() APIParams {
	return APIParams{
		Sort:    "created",
		Order:   "desc",
		PerPage: 100,
		Page:    1,
	}
}

// BuildSearchURL bygger hele søke-URL-en. Filterleddene joines med '+'
// inn i q-parameteren. Search-API-ets query-grammatikk tåler dette uten
// videre URL-escaping.
func BuildSearchURL(base string, filters []QueryFilter, params APIParams) string {
	var parts []string
	for _, f := range filters {
		for _, v := range f.Values {
			parts = append(parts, f.Key+":"+v)
		}
	}

	return fmt.Sprintf("%s?q=%s&sort=%s&order=%s&per_page=%d&page=%d",
		base, strings.Join(parts, "+"), params.Sort, params.Order, params.PerPage, params.Page)
}
