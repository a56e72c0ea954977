package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/anipix/anipix/internal/models"
)

// SearchPath is the route of the search view
const SearchPath = "/search"

// ViewState is the browsing state of the search view. It round-trips through
// the query string, so any view can be rebuilt from its URL.
type ViewState struct {
	Query string `json:"q" yaml:"q,omitempty"`
	Tag   string `json:"tag" yaml:"tag,omitempty"`
	Page  int    `json:"page" yaml:"page"`
}

// ParseViewState reads q, tag and page from query parameters. A missing or
// invalid page becomes 1.
func ParseViewState(values url.Values) ViewState {
	return ViewState{
		Query: values.Get("q"),
		Tag:   values.Get("tag"),
		Page:  ParsePage(values.Get("page")),
	}
}

// ParsePage converts a page parameter to a page number, defaulting to 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Values encodes the state, omitting empty fields and page 1
func (v ViewState) Values() url.Values {
	values := url.Values{}
	if v.Query != "" {
		values.Set("q", v.Query)
	}
	if v.Tag != "" {
		values.Set("tag", v.Tag)
	}
	if v.Page > 1 {
		values.Set("page", strconv.Itoa(v.Page))
	}
	return values
}

// Path returns the search URL that reproduces this state
func (v ViewState) Path() string {
	encoded := v.Values().Encode()
	if encoded == "" {
		return SearchPath
	}
	return SearchPath + "?" + encoded
}

// WithQuery changes the search text. Pagination always restarts at page 1.
func (v ViewState) WithQuery(q string) ViewState {
	v.Query = q
	v.Page = 1
	return v
}

// WithTag changes the selected tag. Pagination always restarts at page 1.
func (v ViewState) WithTag(tag string) ViewState {
	v.Tag = tag
	v.Page = 1
	return v
}

// ToggleTag deselects tag if it is already selected, otherwise selects it
func (v ViewState) ToggleTag(tag string) ViewState {
	if v.Tag == tag {
		return v.WithTag("")
	}
	return v.WithTag(tag)
}

// WithPage moves to another page, leaving query and tag untouched
func (v ViewState) WithPage(page int) ViewState {
	if page < 1 {
		page = 1
	}
	v.Page = page
	return v
}

// Clear resets the view to the unfiltered first page
func (v ViewState) Clear() ViewState {
	return ViewState{Page: 1}
}

// Results runs the search then the tag filter, so both must match
func (v ViewState) Results(e *Engine) []*models.ImageRecord {
	return e.FilterByTag(e.Search(v.Query), v.Tag)
}

// Visible returns the page of results shown for this state
func (v ViewState) Visible(e *Engine, pageSize int) Page {
	return Paginate(v.Results(e), v.Page, pageSize)
}
