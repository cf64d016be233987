// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ContentTypeID discriminates the kinds of content a site can hold.
type ContentTypeID string

const (
	ContentTypeProjects     ContentTypeID = "projects"
	ContentTypeTestimonials ContentTypeID = "testimonials"
	ContentTypeTeam         ContentTypeID = "team"
	ContentTypeSiteContent  ContentTypeID = "site-content"
)

// SiteContentID is the fixed content id of the site-content singleton.
const SiteContentID = "site-content"

// ContentTypeSpec describes how the store treats one content type.
type ContentTypeSpec struct {
	ID    ContentTypeID
	Label string

	// TitleField names the payload field the denormalized title is derived
	// from. Empty means the label is used as the title.
	TitleField string

	// Required lists payload fields that must be non-empty before an item
	// of this type can go live.
	Required []string

	// Singleton types hold at most one item per site.
	Singleton bool
}

var contentTypes = map[ContentTypeID]ContentTypeSpec{
	ContentTypeProjects: {
		ID:         ContentTypeProjects,
		Label:      "Project",
		TitleField: "title",
		Required:   []string{"title"},
	},
	ContentTypeTestimonials: {
		ID:         ContentTypeTestimonials,
		Label:      "Testimonial",
		TitleField: "name",
		Required:   []string{"name", "quote"},
	},
	ContentTypeTeam: {
		ID:         ContentTypeTeam,
		Label:      "Team Member",
		TitleField: "name",
		Required:   []string{"name"},
	},
	ContentTypeSiteContent: {
		ID:        ContentTypeSiteContent,
		Label:     "Site Content",
		Singleton: true,
	},
}

// LookupContentType returns the registry entry for id.
func LookupContentType(id ContentTypeID) (ContentTypeSpec, bool) {
	spec, ok := contentTypes[id]
	return spec, ok
}

// ContentTypes returns every registered content type id in display order.
func ContentTypes() []ContentTypeID {
	return []ContentTypeID{
		ContentTypeProjects,
		ContentTypeTestimonials,
		ContentTypeTeam,
		ContentTypeSiteContent,
	}
}

// TitleOf derives the display title for a payload of this type.
func (s ContentTypeSpec) TitleOf(f Fields) string {
	if s.TitleField == "" {
		return s.Label
	}
	return f.String(s.TitleField)
}

// MissingFields returns the required fields that are absent or blank in f.
func (s ContentTypeSpec) MissingFields(f Fields) []string {
	var missing []string
	for _, name := range s.Required {
		v, ok := f[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if str, isStr := v.(string); isStr && str == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// DefaultSiteContent returns the field values a site shows before anyone
// has saved its site-content record.
func DefaultSiteContent() Fields {
	return Fields{
		"heroTitle":         "We build thoughtful digital products",
		"heroSubtitle":      "Strategy, design and engineering for ambitious teams.",
		"aboutTitle":        "About us",
		"aboutText":         "",
		"servicesTitle":     "What we do",
		"projectsTitle":     "Selected work",
		"teamTitle":         "Meet the team",
		"testimonialsTitle": "What our clients say",
		"contactTitle":      "Get in touch",
		"contactEmail":      "",
		"contactPhone":      "",
		"footerText":        "",
	}
}
