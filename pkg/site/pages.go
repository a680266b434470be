package site

import (
	"fmt"
	"strings"

	"mockups/pkg/models"
)

// view is the data every page template receives. All hrefs are resolved
// here so the template only has to print them.
type view struct {
	Title      string
	AppName    string
	HomeHref   string
	IconHref   string
	StylesHref string
	ScriptHref string
	LogoHref   string
	Heading    string
	Categories []navItem
	Sections   []navItem
	Groups     []group
}

type navItem struct {
	Label string
	Href  string
	Class string
	Hue   int
}

type group struct {
	Label   string
	Href    string
	Class   string
	Hue     int
	Summary string
	Images  []imageView
}

type imageView struct {
	Thumb string
	Full  string
	Alt   string
}

const selectedClass = "current"

// newView fills the parts shared by every page. root is the prefix leading
// back to the site directory from the page being rendered.
func (r *Renderer) newView(project models.Project, root, heading string) view {
	v := view{
		Title:      project.Name,
		AppName:    project.Name,
		HomeHref:   root + indexFile,
		StylesHref: root + "css/styles.css",
		ScriptHref: root + "js/mockups.js",
		LogoHref:   root + logoFile,
		Heading:    heading,
	}
	if heading != project.Name {
		v.Title = heading + " | " + project.Name
	}
	if project.IconExists {
		v.IconHref = root + iconFile
	}
	return v
}

func (r *Renderer) siteIndex(project models.Project, categories []models.Category) view {
	v := r.newView(project, "", project.Name)
	v.Categories = categoryNav(categories, "", "")

	for _, category := range categories {
		v.Groups = append(v.Groups, group{
			Label:   category.Name,
			Href:    category.File + "/" + indexFile,
			Class:   category.File,
			Summary: summary(category),
		})
	}
	return v
}

func (r *Renderer) categoryIndex(project models.Project, categories []models.Category, category models.Category) view {
	v := r.newView(project, "../", category.Name)
	v.Categories = categoryNav(categories, "../", category.File)
	v.Sections = sectionNav(category.Sections, "")

	for _, section := range category.Sections {
		v.Groups = append(v.Groups, group{
			Label:  section.Name,
			Href:   section.File,
			Class:  section.Class,
			Hue:    section.Hue,
			Images: r.images("../", section.Images),
		})
	}
	return v
}

func (r *Renderer) sectionPage(project models.Project, categories []models.Category, category models.Category, section models.Section) view {
	v := r.newView(project, "../", section.Name)
	v.Title = section.Name + " | " + category.Name + " | " + project.Name
	v.Categories = categoryNav(categories, "../", category.File)
	v.Sections = sectionNav(category.Sections, section.File)
	v.Groups = []group{{
		Class:  section.Class,
		Hue:    section.Hue,
		Images: r.images("../", section.Images),
	}}
	return v
}

func categoryNav(categories []models.Category, root, selected string) []navItem {
	items := make([]navItem, 0, len(categories))
	for _, category := range categories {
		items = append(items, navItem{
			Label: category.Name,
			Href:  root + category.File + "/" + indexFile,
			Class: classes(category.File, category.File == selected),
		})
	}
	return items
}

func sectionNav(sections []models.Section, selected string) []navItem {
	items := make([]navItem, 0, len(sections))
	for _, section := range sections {
		items = append(items, navItem{
			Label: section.Name,
			Href:  section.File,
			Class: classes(section.Class, section.File == selected),
			Hue:   section.Hue,
		})
	}
	return items
}

func (r *Renderer) images(root string, images []models.Image) []imageView {
	views := make([]imageView, 0, len(images))
	for _, img := range images {
		views = append(views, imageView{
			Thumb: root + ThumbsDir + "/" + img.Category + "/" + img.FileURL,
			Full:  r.sourceURL(root, img),
			Alt:   fmt.Sprintf("%s #%d", img.Category, img.Number),
		})
	}
	return views
}

func (r *Renderer) sourceURL(root string, img models.Image) string {
	prefix := r.sourceHref
	if !strings.HasPrefix(prefix, "file://") {
		prefix = root + prefix
	}
	return prefix + "/" + img.Category + "/" + img.FileURL
}

func classes(base string, selected bool) string {
	if selected {
		return base + " " + selectedClass
	}
	return base
}

func summary(category models.Category) string {
	return fmt.Sprintf("%d sections, %d screenshots", len(category.Sections), category.ImageCount())
}
