package filter

import (
	"net/url"
	"strings"
)

// Options represents the filter[...] query parameters of an API request.
type Options struct {
	Filters map[string][]string
}

// NewOptions parses query parameters and creates filter options
func NewOptions(query url.Values) *Options {
	options := &Options{
		Filters: make(map[string][]string),
	}

	for key, values := range query {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			filterName := key[7 : len(key)-1]
			options.Filters[filterName] = values
		}
	}

	return options
}

// HasFilter checks if a specific filter exists
func (o *Options) HasFilter(name string) bool {
	_, exists := o.Filters[name]
	return exists
}

// GetFilter returns the value(s) for a specific filter
func (o *Options) GetFilter(name string) []string {
	return o.Filters[name]
}

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(item T) bool

// Filter applies a filter function to a slice of items
func Filter[T any](items []T, fn FilterFunc[T]) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
