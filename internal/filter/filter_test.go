package filter

import (
	"net/url"
	"testing"
)

func TestNewOptions(t *testing.T) {
	// Test with empty query
	emptyQuery := url.Values{}
	options := NewOptions(emptyQuery)
	if len(options.Filters) != 0 {
		t.Errorf("expected empty filters, got %v", options.Filters)
	}

	// Test with filters
	query := url.Values{}
	query.Add("filter[name]", "西直门")
	query.Add("filter[route]", "2")
	query.Add("unrelated", "x")

	options = NewOptions(query)

	// Check filters
	if len(options.Filters) != 2 {
		t.Errorf("expected 2 filters, got %d", len(options.Filters))
	}
	if _, ok := options.Filters["name"]; !ok {
		t.Errorf("expected filter[name], not found")
	}
	if _, ok := options.Filters["route"]; !ok {
		t.Errorf("expected filter[route], not found")
	}
	if options.Filters["name"][0] != "西直门" {
		t.Errorf("expected filter[name]=西直门, got %s", options.Filters["name"][0])
	}
	if options.Filters["route"][0] != "2" {
		t.Errorf("expected filter[route]=2, got %s", options.Filters["route"][0])
	}
}

func TestHelperMethods(t *testing.T) {
	query := url.Values{}
	query.Add("filter[name]", "门")

	options := NewOptions(query)

	// Test HasFilter
	if !options.HasFilter("name") {
		t.Errorf("expected HasFilter(name) to be true")
	}
	if options.HasFilter("nonexistent") {
		t.Errorf("expected HasFilter(nonexistent) to be false")
	}

	// Test GetFilter
	nameFilter := options.GetFilter("name")
	if len(nameFilter) != 1 || nameFilter[0] != "门" {
		t.Errorf("expected GetFilter(name)=[门], got %v", nameFilter)
	}
	nonExistentFilter := options.GetFilter("nonexistent")
	if len(nonExistentFilter) != 0 {
		t.Errorf("expected GetFilter(nonexistent) to be empty, got %v", nonExistentFilter)
	}
}

func TestFilterFunction(t *testing.T) {
	// Create some test data
	numbers := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	// Filter for even numbers
	evenNumbers := Filter(numbers, func(n int) bool {
		return n%2 == 0
	})

	// Check the result
	expectedEven := []int{2, 4, 6, 8, 10}
	if len(evenNumbers) != len(expectedEven) {
		t.Errorf("unexpected number of even numbers: got %d want %d", len(evenNumbers), len(expectedEven))
	}

	for i, n := range evenNumbers {
		if n != expectedEven[i] {
			t.Errorf("unexpected value at index %d: got %d want %d", i, n, expectedEven[i])
		}
	}

	// Filter for numbers greater than 5
	greaterThanFive := Filter(numbers, func(n int) bool {
		return n > 5
	})

	// Check the result
	expectedGreaterThanFive := []int{6, 7, 8, 9, 10}
	if len(greaterThanFive) != len(expectedGreaterThanFive) {
		t.Errorf("unexpected number of numbers greater than 5: got %d want %d", len(greaterThanFive), len(expectedGreaterThanFive))
	}

	for i, n := range greaterThanFive {
		if n != expectedGreaterThanFive[i] {
			t.Errorf("unexpected value at index %d: got %d want %d", i, n, expectedGreaterThanFive[i])
		}
	}
}
