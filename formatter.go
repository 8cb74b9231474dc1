package stocargo

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// recordSeparator ends every record in full output.
var recordSeparator = "\n" + strings.Repeat("-", 40) + "\n"

// doffTiers are the duty officer quality tiers in ascending order.
var doffTiers = []string{"white", "green", "blue", "purple", "violet", "gold"}

var sectionFieldRe = regexp.MustCompile(`(?i)^(head|subhead|text)(\d+)$`)

// Fields shown by the category layouts. Every other non-null field is
// listed after the layout.
var layoutFields = map[Category][]string{
	CategoryEquipment:     {"name", "rarity", "type"},
	CategoryPersonalTrait: {"name", "type", "environment", "chartype", "isunique", "description"},
	CategoryStarshipTrait: {"name", "type", "short", "basic", "detailed", "obtained"},
	CategoryDoff:          append([]string{"doff_specialization", "shipdutytype", "department", "description"}, doffTiers...),
}

// FormatRecord renders every field of a record for full output.
// Field values pass through conv; a nil conv leaves them untouched.
func FormatRecord(c Category, r Record, conv Converter) string {
	var b strings.Builder
	switch c {
	case CategoryEquipment:
		formatEquipment(&b, r, conv)
	case CategoryPersonalTrait:
		formatPersonalTrait(&b, r, conv)
	case CategoryStarshipTrait:
		formatStarshipTrait(&b, r, conv)
	case CategoryDoff:
		formatDoff(&b, r, conv)
	}
	formatRemaining(&b, c, r, conv)
	b.WriteString(recordSeparator)
	return b.String()
}

// FormatRecords renders records of one category for full output.
func FormatRecords(c Category, records []Record, conv Converter) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, FormatRecord(c, r, conv))
	}
	return strings.Join(parts, "\n")
}

// FormatCell returns the condensed-table text of one column of a record.
func FormatCell(r Record, col Column, conv Converter) string {
	if col.Field == "isunique" {
		return yesNo(r.Truthy(col.Field))
	}
	return strings.TrimSpace(convert(conv, r.String(col.Field)))
}

// IndentText indents each line of s by level tabs. A line of the form
// "key: value" becomes "key<TAB>value" so the values line up.
func IndentText(s string, level int) string {
	prefix := strings.Repeat("\t", level)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if key, value, ok := strings.Cut(line, ":"); ok {
			lines[i] = prefix + strings.TrimSpace(key) + "\t" + strings.TrimSpace(value)
			continue
		}
		lines[i] = prefix + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func writeLabel(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeBlock(b *strings.Builder, title, text string, conv Converter) {
	if text == "" {
		return
	}
	b.WriteString(title)
	b.WriteString(":\n")
	b.WriteString(IndentText(convert(conv, text), 1))
	b.WriteString("\n")
}

func formatEquipment(b *strings.Builder, r Record, conv Converter) {
	for _, field := range []string{"name", "rarity", "type"} {
		if r.Has(field) {
			writeLabel(b, titleCase(field), convert(conv, r.String(field)))
		}
	}
	b.WriteString("\n")

	type section struct{ head, subhead, text string }
	sections := make(map[int]*section)
	for field, value := range r {
		m := sectionFieldRe.FindStringSubmatch(field)
		if m == nil || value == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		s, ok := sections[n]
		if !ok {
			s = &section{}
			sections[n] = s
		}
		switch strings.ToLower(m[1]) {
		case "head":
			s.head = stringify(value)
		case "subhead":
			s.subhead = stringify(value)
		case "text":
			s.text = stringify(value)
		}
	}

	nums := make([]int, 0, len(sections))
	for n := range sections {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	for _, n := range nums {
		s := sections[n]
		if s.head != "" {
			b.WriteString(convert(conv, s.head))
			b.WriteString("\n")
		}
		if s.subhead != "" {
			if s.head != "" {
				b.WriteString("\t")
			}
			b.WriteString(convert(conv, s.subhead))
			b.WriteString("\n")
		}
		if s.text != "" {
			indent := 0
			if s.subhead != "" {
				indent = 2
			} else if s.head != "" {
				indent = 1
			}
			b.WriteString(IndentText(convert(conv, s.text), indent))
			b.WriteString("\n")
		}
	}
}

func formatPersonalTrait(b *strings.Builder, r Record, conv Converter) {
	writeLabel(b, "Name", convert(conv, r.String("name")))
	writeLabel(b, "Type", convert(conv, r.String("type")))
	writeLabel(b, "Environment", convert(conv, r.String("environment")))
	writeLabel(b, "Character Type", convert(conv, r.String("chartype")))
	writeLabel(b, "Unique", yesNo(r.Truthy("isunique")))
	b.WriteString("\n")
	writeBlock(b, "Description", r.String("description"), conv)
}

func formatStarshipTrait(b *strings.Builder, r Record, conv Converter) {
	writeLabel(b, "Name", convert(conv, r.String("name")))
	writeLabel(b, "Type", convert(conv, r.String("type")))
	writeLabel(b, "Short", convert(conv, r.String("short")))
	for _, field := range []string{"basic", "detailed", "obtained"} {
		if text := r.String(field); text != "" {
			b.WriteString("\n")
			writeBlock(b, titleCase(field), text, conv)
		}
	}
}

func formatDoff(b *strings.Builder, r Record, conv Converter) {
	writeLabel(b, "Specialization", convert(conv, r.String("doff_specialization")))
	writeLabel(b, "Ship Duty", convert(conv, r.String("shipdutytype")))
	writeLabel(b, "Department", convert(conv, r.String("department")))
	b.WriteString("\n")
	writeBlock(b, "Description", r.String("description"), conv)
	for _, tier := range doffTiers {
		if text := r.String(tier); text != "" {
			b.WriteString("\n")
			writeBlock(b, titleCase(tier), text, conv)
		}
	}
}

// formatRemaining writes the non-null fields of r that the layout of c
// did not show, in field name order.
func formatRemaining(b *strings.Builder, c Category, r Record, conv Converter) {
	shown := make(map[string]bool)
	for _, field := range layoutFields[c] {
		shown[field] = true
	}

	first := true
	for _, field := range r.Fields() {
		if shown[field] || r[field] == nil {
			continue
		}
		if c == CategoryEquipment && sectionFieldRe.MatchString(field) {
			continue
		}
		if first && b.Len() > 0 {
			b.WriteString("\n")
		}
		first = false
		writeLabel(b, field, convert(conv, r.String(field)))
	}
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
