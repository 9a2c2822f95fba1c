package extractor

import "strings"

// FieldSelectors is an ordered list of candidate CSS selectors for one
// field. Candidates are tried in order and the first match wins, so the
// most current site markup goes first and legacy classes follow. This is
// the explicit, testable replacement for ad-hoc fallback probing.
type FieldSelectors []string

// Profile describes how to locate listings on one classifieds site.
// Selectors are structural and brittle to markup changes; when nothing
// matches the extractor returns zero records rather than an error.
type Profile struct {
	Name string

	// Container matches the repeating element wrapping one search result.
	Container FieldSelectors
	Title     FieldSelectors
	Price     FieldSelectors
	Location  FieldSelectors
	// Link matches the anchor carrying the listing detail URL.
	Link      FieldSelectors
	Thumbnail FieldSelectors

	// LinkHints enables the anchor-heuristic fallback: when Container
	// matches nothing, any anchor whose href contains one of these
	// substrings is treated as a result container.
	LinkHints []string
}

var registry = map[string]Profile{}

// Register adds a profile under its lowercased name, replacing any
// existing profile with the same name.
func Register(p Profile) {
	registry[strings.ToLower(p.Name)] = p
}

// Get returns the profile registered under name.
func Get(name string) (Profile, bool) {
	p, ok := registry[strings.ToLower(name)]
	return p, ok
}

// Names returns the registered profile names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	// OLX search results. Attribute selectors first: data-aut-id hooks are
	// the most stable markup OLX ships. The class names after them are
	// older regional variants.
	Register(Profile{
		Name: "olx",
		Container: FieldSelectors{
			`li[data-aut-id="itemBox"]`,
			`div[data-aut-id="itemBox"]`,
			`li.EIR5N`,
			`div.offer-wrapper`,
		},
		Title: FieldSelectors{
			`span[data-aut-id="itemTitle"]`,
			`.title`,
			`h2`,
		},
		Price: FieldSelectors{
			`span[data-aut-id="itemPrice"]`,
			`.price`,
			`span._89yzn`,
			`span._2xKfz`,
		},
		Location: FieldSelectors{
			`span[data-aut-id="itemLocation"]`,
			`span._2FBdJ`,
			`.tjgMj`,
		},
		Link: FieldSelectors{
			`a[data-aut-id="itemLink"]`,
			`a[href]`,
		},
		Thumbnail: FieldSelectors{
			`img[src]`,
			`img[data-src]`,
		},
		LinkHints: []string{"/item", "/i/", "/items/"},
	})

	// Generic profile: no container selectors, pure anchor heuristic.
	// Works on unfamiliar classifieds sites at the cost of noisier fields.
	Register(Profile{
		Name: "generic",
		Title: FieldSelectors{
			`h2`,
			`h3`,
			`.title`,
		},
		Price: FieldSelectors{
			`.price`,
			`span[class*="price"]`,
		},
		Location: FieldSelectors{
			`.location`,
			`span[class*="location"]`,
		},
		Link: FieldSelectors{
			`a[href]`,
		},
		Thumbnail: FieldSelectors{
			`img[src]`,
			`img[data-src]`,
		},
		LinkHints: []string{"/item", "/i/", "/items/", "/ad/", "/offer"},
	})
}
