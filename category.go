package stocargo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Category identifies one searchable record type.
type Category string

// Supported categories, in display order.
const (
	CategoryEquipment     Category = "equipment"
	CategoryPersonalTrait Category = "personal_trait"
	CategoryStarshipTrait Category = "starship_trait"
	CategoryDoff          Category = "doff"
)

// Categories returns every supported category in display order.
func Categories() []Category {
	return []Category{
		CategoryEquipment,
		CategoryPersonalTrait,
		CategoryStarshipTrait,
		CategoryDoff,
	}
}

// ParseCategory returns the category with the given name.
// Returns EUSAGE if the name is not a supported category.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", Errorf(EUSAGE, "unknown search type %q (valid types: %s)", name, strings.Join(CategoryNames(), " "))
}

// ParseCategories parses a list of category names, dropping duplicates.
// The result keeps display order regardless of input order.
// An empty input selects every category.
func ParseCategories(names []string) ([]Category, error) {
	if len(names) == 0 {
		return Categories(), nil
	}

	selected := make(map[Category]bool, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		selected[c] = true
	}

	var out []Category
	for _, c := range Categories() {
		if selected[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

// CategoryNames returns the names of every supported category.
func CategoryNames() []string {
	cats := Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

// Title returns the display title of the category, e.g. "STARSHIP TRAIT".
func (c Category) Title() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "_", " "))
}

// Export describes the Cargo export query backing a category.
type Export struct {
	// Table is the Cargo table name.
	Table string

	// Fields is the comma-separated Cargo field list, with optional aliases.
	Fields string

	// Limit is the page size requested from the wiki.
	Limit int

	// Where is an optional Cargo where clause.
	Where string
}

// Column is one column of a condensed result table.
type Column struct {
	Header string
	Field  string
}

// Export returns the Cargo export query for the category.
func (c Category) Export() Export {
	switch c {
	case CategoryEquipment:
		return Export{
			Table:  "Infobox",
			Fields: "_pageName=Page,name,rarity,type,boundto,boundwhen,who," + equipmentSectionFields(),
			Limit:  5000,
		}
	case CategoryPersonalTrait:
		return Export{
			Table:  "Traits",
			Fields: "_pageName=Page,name,chartype,environment,type,isunique,description",
			Limit:  2500,
		}
	case CategoryStarshipTrait:
		return Export{
			Table:  "StarshipTraits",
			Fields: "_pageName=Page,name,short,type,detailed,obtained,basic",
			Limit:  2500,
			Where:  "name IS NOT NULL",
		}
	case CategoryDoff:
		return Export{
			Table:  "Specializations",
			Fields: "_pageName=Page,name=doff_specialization,shipdutytype,department,description,white,green,blue,purple,violet,gold",
			Limit:  1000,
		}
	}
	return Export{}
}

// EquipmentSections is the number of head/subhead/text groups in an equipment infobox.
const EquipmentSections = 9

func equipmentSectionFields() string {
	var fields []string
	for _, prefix := range []string{"head", "subhead", "text"} {
		for i := 1; i <= EquipmentSections; i++ {
			fields = append(fields, prefix+strconv.Itoa(i))
		}
	}
	return strings.Join(fields, ",")
}

// ExportURL builds the Cargo export URL for one page of the category.
// baseURL is the wiki root, e.g. "https://stowiki.net/wiki/".
func (c Category) ExportURL(baseURL string, offset int) string {
	e := c.Export()

	// Cargo expects the field list unescaped, so build the query by hand
	// and only escape values that can contain spaces.
	params := []string{
		"tables=" + e.Table,
		"fields=" + e.Fields,
		"limit=" + strconv.Itoa(e.Limit),
		"offset=" + strconv.Itoa(offset),
		"format=json",
	}
	if e.Where != "" {
		params = append(params, "where="+url.QueryEscape(e.Where))
	}

	return fmt.Sprintf("%s%s?%s", ensureSlash(baseURL), CargoExportPage, strings.Join(params, "&"))
}

// CargoExportPage is the wiki special page serving Cargo exports.
const CargoExportPage = "Special:CargoExport"

// DefaultWikiURL is the root URL of the Star Trek Online wiki.
const DefaultWikiURL = "https://stowiki.net/wiki/"

func ensureSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// IDField returns the field that identifies records of the category.
func (c Category) IDField() string {
	if c == CategoryDoff {
		return "doff_specialization"
	}
	return "name"
}

// Columns returns the columns of the condensed result table.
func (c Category) Columns() []Column {
	switch c {
	case CategoryEquipment:
		return []Column{{"Type", "type"}, {"Name", "name"}, {"Rarity", "rarity"}}
	case CategoryPersonalTrait:
		return []Column{{"Name", "name"}, {"Type", "type"}, {"Environment", "environment"}, {"Unique", "isunique"}}
	case CategoryStarshipTrait:
		return []Column{{"Type", "type"}, {"Name", "name"}, {"Short", "short"}}
	case CategoryDoff:
		return []Column{{"DOff Specialization", "doff_specialization"}, {"Ship Duty", "shipdutytype"}, {"Department", "department"}, {"Description", "description"}}
	}
	return []Column{{"Name", "name"}}
}

// DetectCategory infers the category of a record from the fields it carries.
// Returns false if no category matches.
func DetectCategory(r Record) (Category, bool) {
	switch {
	case r.Has("doff_specialization"):
		return CategoryDoff, true
	case r.Has("basic") || r.Has("detailed") || r.Has("obtained"):
		return CategoryStarshipTrait, true
	case r.Has("chartype") && r.Has("environment"):
		return CategoryPersonalTrait, true
	}
	for key := range r {
		if strings.HasPrefix(key, "head") || strings.HasPrefix(key, "subhead") || strings.HasPrefix(key, "text") {
			return CategoryEquipment, true
		}
	}
	return "", false
}
