// Package naming derives the identifiers a generated entity type uses from
// its machine name.
package naming

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names holds every identifier derived from one machine name.
type Names struct {
	Machine  string // recipe_step
	Class    string // RecipeStep
	Path     string // recipe/step
	Bundle   string // recipe_step_type
	Template string // recipe-step
}

// Derive computes all names for the given machine name.
func Derive(machineName string) Names {
	return Names{
		Machine:  machineName,
		Class:    ClassName(machineName),
		Path:     PathSegment(machineName),
		Bundle:   BundleID(machineName),
		Template: TemplateName(machineName),
	}
}

// BundleClass is the class name of the bundle type entity.
func (n Names) BundleClass() string {
	return n.Class + "Type"
}

// ClassName converts an underscore separated machine name to a class name:
// every segment is lower-cased, capitalised and the segments are joined.
func ClassName(machineName string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, part := range strings.Split(machineName, "_") {
		b.WriteString(caser.String(strings.ToLower(part)))
	}
	return b.String()
}

// PathSegment converts a machine name into a URL path by replacing
// underscores with slashes.
func PathSegment(machineName string) string {
	return strings.ReplaceAll(machineName, "_", "/")
}

// BundleID returns the machine name of the bundle type entity.
func BundleID(machineName string) string {
	return machineName + "_type"
}

// TemplateName returns the theme template name (and the base of its file name).
func TemplateName(machineName string) string {
	return strings.ReplaceAll(machineName, "_", "-")
}

// TemplateFile returns the Twig file name of the entity template.
func TemplateFile(machineName string) string {
	return TemplateName(machineName) + ".html.twig"
}

// Label converts an underscore or space separated name into a title-cased
// label, e.g. "image_source" becomes "Image Source".
func Label(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Underscore converts a human readable name into a machine name.
func Underscore(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// Plural returns the plural form of a label.
func Plural(label string) string {
	if label == "" {
		return ""
	}
	return inflect.Pluralize(label)
}

// Ucfirst upper-cases the first byte of s.
func Ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var (
	machineName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	moduleClass = regexp.MustCompile(`^\\?Drupal\\([A-Za-z0-9_]+)\\`)
)

// ValidMachineName reports whether s can be used as an entity type, bundle or
// module machine name.
func ValidMachineName(s string) bool {
	return machineName.MatchString(s)
}

// ModuleFromClass extracts the module name from a fully qualified class name
// in the Drupal\<module>\... namespace.
func ModuleFromClass(fqcn string) (string, bool) {
	m := moduleClass.FindStringSubmatch(fqcn)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ShortClass returns the unqualified part of a fully qualified class name.
func ShortClass(fqcn string) string {
	if i := strings.LastIndex(fqcn, `\`); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}
