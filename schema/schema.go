// Package schema describes which tags an email template document knows about,
// which of them are leaves and what each container accepts as children.
//
// The registry is static. Unknown parent tags accept nothing, callers treat
// that as a rejected edit rather than an error.
package schema

import (
	"slices"
)

// Sentinel tags anchoring canonical document structure.
const (
	TagRoot = "mjml"
	TagHead = "mj-head"
	TagBody = "mj-body"
)

const (
	TagAttributes       = "mj-attributes"
	TagAll              = "mj-all"
	TagClass            = "mj-class"
	TagBreakpoint       = "mj-breakpoint"
	TagFont             = "mj-font"
	TagPreview          = "mj-preview"
	TagStyle            = "mj-style"
	TagTitle            = "mj-title"
	TagRaw              = "mj-raw"
	TagWrapper          = "mj-wrapper"
	TagSection          = "mj-section"
	TagGroup            = "mj-group"
	TagColumn           = "mj-column"
	TagHero             = "mj-hero"
	TagText             = "mj-text"
	TagImage            = "mj-image"
	TagButton           = "mj-button"
	TagDivider          = "mj-divider"
	TagSpacer           = "mj-spacer"
	TagTable            = "mj-table"
	TagRow              = "tr"
	TagHeaderCell       = "th"
	TagCell             = "td"
	TagSocial           = "mj-social"
	TagSocialElement    = "mj-social-element"
	TagNavbar           = "mj-navbar"
	TagNavbarLink       = "mj-navbar-link"
	TagCarousel         = "mj-carousel"
	TagCarouselImage    = "mj-carousel-image"
	TagAccordion        = "mj-accordion"
	TagAccordionElement = "mj-accordion-element"
	TagAccordionTitle   = "mj-accordion-title"
	TagAccordionText    = "mj-accordion-text"
)

// content allowed inside columns and heroes
var blockContent = []string{
	TagText, TagImage, TagButton, TagDivider, TagSpacer, TagTable,
	TagSocial, TagNavbar, TagCarousel, TagAccordion, TagRaw,
}

// Order of entries matters: it is the preference order used when searching
// for wrapper chains.
var children = map[string][]string{
	TagRoot:             {TagHead, TagBody, TagRaw},
	TagHead:             {TagAttributes, TagBreakpoint, TagFont, TagPreview, TagStyle, TagTitle},
	TagAttributes:       append([]string{TagAll, TagClass}, bodyComponents()...),
	TagBody:             {TagSection, TagWrapper, TagHero},
	TagWrapper:          {TagSection, TagHero, TagRaw},
	TagSection:          {TagColumn, TagGroup, TagRaw},
	TagGroup:            {TagColumn, TagRaw},
	TagColumn:           blockContent,
	TagHero:             blockContent,
	TagTable:            {TagRow},
	TagRow:              {TagHeaderCell, TagCell},
	TagSocial:           {TagSocialElement},
	TagNavbar:           {TagNavbarLink},
	TagCarousel:         {TagCarouselImage},
	TagAccordion:        {TagAccordionElement},
	TagAccordionElement: {TagAccordionTitle, TagAccordionText},
}

var leaves = map[string]struct{}{
	TagText: {}, TagImage: {}, TagButton: {}, TagDivider: {}, TagSpacer: {}, TagRaw: {},
	TagSocialElement: {}, TagNavbarLink: {}, TagCarouselImage: {},
	TagAccordionTitle: {}, TagAccordionText: {}, TagHeaderCell: {}, TagCell: {},
	TagTitle: {}, TagPreview: {}, TagStyle: {}, TagFont: {}, TagBreakpoint: {},
	TagAll: {}, TagClass: {},
}

var tableTags = map[string]struct{}{
	TagTable: {}, TagRow: {}, TagHeaderCell: {}, TagCell: {},
}

// tags which may be synthesized to carry misplaced content
var wrappers = map[string]struct{}{
	TagSection: {}, TagColumn: {}, TagTable: {}, TagRow: {}, TagSocial: {},
	TagNavbar: {}, TagCarousel: {}, TagAccordion: {}, TagAccordionElement: {},
}

func bodyComponents() []string {
	return []string{
		TagWrapper, TagSection, TagGroup, TagColumn, TagHero,
		TagText, TagImage, TagButton, TagDivider, TagSpacer, TagTable, TagRow, TagHeaderCell, TagCell,
		TagSocial, TagSocialElement, TagNavbar, TagNavbarLink, TagCarousel, TagCarouselImage,
		TagAccordion, TagAccordionElement, TagAccordionTitle, TagAccordionText, TagRaw,
	}
}

// BodyComponents lists tags which may appear inside document body. Each of
// them may also be used under mj-attributes to declare per-tag defaults.
func BodyComponents() []string {
	return bodyComponents()
}

// AllowedChildren returns a sorted copy of the tags accepted under parent.
func AllowedChildren(parent string) []string {
	list := slices.Clone(children[parent])
	slices.Sort(list)
	return list
}

// CanAccept reports whether child may be placed directly under parent.
func CanAccept(parent, child string) bool {
	return slices.Contains(children[parent], child)
}

func IsLeaf(tag string) bool {
	_, ok := leaves[tag]
	return ok
}

// IsKnown reports whether tag belongs to the document vocabulary.
func IsKnown(tag string) bool {
	if _, ok := children[tag]; ok {
		return true
	}
	return IsLeaf(tag)
}

// IsTableTag reports whether tag is part of table grid.
func IsTableTag(tag string) bool {
	_, ok := tableTags[tag]
	return ok
}

// IsSentinel reports whether tag is one of root, head or body tags.
func IsSentinel(tag string) bool {
	return tag == TagRoot || tag == TagHead || tag == TagBody
}

// WrapperChain finds the shortest list of container tags which has to be
// created between parent and child so that every edge is acceptable. It
// returns (nil, true) when parent accepts child directly and (nil, false) when
// no chain exists. Only a restricted set of plain containers is ever
// synthesized: wrappers, heroes, groups and attribute blocks are never invented.
func WrapperChain(parent, child string) ([]string, bool) {
	if CanAccept(parent, child) {
		return nil, true
	}

	type step struct {
		tag  string
		path []string
	}

	visited := map[string]struct{}{parent: {}}
	queue := []step{{tag: parent}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range children[cur.tag] {
			if _, ok := wrappers[next]; !ok {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			path := append(slices.Clone(cur.path), next)
			if CanAccept(next, child) {
				return path, true
			}
			queue = append(queue, step{tag: next, path: path})
		}
	}
	return nil, false
}
