package extract

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Icons and decorative thumbnails fall below this rendered size.
// Images without width/height attributes pass the check.
const minRenderedSize = 75

// Strategy locates pin-like container elements in a rendered page
type Strategy interface {
	// Name identifies the strategy in logs
	Name() string

	// Find returns every candidate container the strategy matches
	Find(doc *goquery.Document) []*goquery.Selection
}

// Strategies returns the ordered fallback chain. The first strategy
// yielding at least one match is used for the whole page; mixing
// strategies would double-count pins matched by more than one.
func Strategies() []Strategy {
	return []Strategy{
		testIDStrategy{},
		listItemStrategy{},
		containerStrategy{},
		saveButtonStrategy{},
	}
}

// testIDStrategy matches the semantic test identifier Pinterest puts on
// pin wrappers.
type testIDStrategy struct{}

func (testIDStrategy) Name() string { return "data-test-id" }

func (testIDStrategy) Find(doc *goquery.Document) []*goquery.Selection {
	return collect(doc.Find(`[data-test-id="pin"]`))
}

// listItemStrategy matches ARIA list items in the board grid
type listItemStrategy struct{}

func (listItemStrategy) Name() string { return "role-listitem" }

func (listItemStrategy) Find(doc *goquery.Document) []*goquery.Selection {
	return collect(doc.Find(`[role="listitem"]`))
}

// containerStrategy matches generic containers holding both an image and
// a permalink anchor. To avoid matching every ancestor up the tree, it
// walks permalink anchors and picks each one's innermost div ancestor
// that also contains a large-enough image.
type containerStrategy struct{}

func (containerStrategy) Name() string { return "img-and-permalink" }

func (containerStrategy) Find(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection
	seen := make(map[*html.Node]bool)

	doc.Find(`a[href*="/pin/"]`).Each(func(_ int, anchor *goquery.Selection) {
		container := innermostDivWithImage(anchor)
		if container == nil || seen[container.Nodes[0]] {
			return
		}
		seen[container.Nodes[0]] = true
		out = append(out, container)
	})

	return out
}

// saveButtonStrategy anchors on the "Save" control and treats its nearest
// pin-shaped ancestor as the candidate boundary. Last resort when the
// grid markup has changed under the direct selectors.
type saveButtonStrategy struct{}

func (saveButtonStrategy) Name() string { return "save-button" }

func (saveButtonStrategy) Find(doc *goquery.Document) []*goquery.Selection {
	var out []*goquery.Selection

	doc.Find(`svg[aria-label="Save"], button[aria-label="Save"]`).Each(func(_ int, marker *goquery.Selection) {
		container := marker.Closest(`[data-test-id="pin"]`)
		if container.Length() == 0 {
			container = marker.Closest(`[role="listitem"]`)
		}
		if container.Length() == 0 {
			return
		}
		for _, prev := range out {
			if sameNode(prev, container) {
				return
			}
		}
		out = append(out, container)
	})

	return out
}

func collect(sel *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// innermostDivWithImage returns the closest div ancestor of the anchor
// that contains a sufficiently large image, or nil
func innermostDivWithImage(anchor *goquery.Selection) *goquery.Selection {
	for parent := anchor.Closest("div"); parent.Length() > 0; parent = parent.Parent().Closest("div") {
		if hasLargeImage(parent) {
			return parent
		}
	}
	return nil
}

func hasLargeImage(s *goquery.Selection) bool {
	found := false
	s.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if imageLargeEnough(img) {
			found = true
			return false
		}
		return true
	})
	return found
}

// imageLargeEnough applies the min rendered size heuristic using the
// width/height attributes; images without them pass
func imageLargeEnough(img *goquery.Selection) bool {
	for _, attr := range []string{"width", "height"} {
		if v, ok := img.Attr(attr); ok {
			if n, err := strconv.Atoi(v); err == nil && n < minRenderedSize {
				return false
			}
		}
	}
	return true
}

func sameNode(a, b *goquery.Selection) bool {
	if a.Length() == 0 || b.Length() == 0 {
		return false
	}
	return a.Nodes[0] == b.Nodes[0]
}
