/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"regexp"
	"strings"
)

// StringMasker hides secrets in strings.
type StringMasker interface {
	Mask(s string) string
}

type mask struct {
	re          *regexp.Regexp
	replacement string
}

type fieldMasker struct {
	field string // lowercase
	masks []mask
}

// Masker hides values of the configured fields in HTTP headers, JSON documents
// and URL-encoded strings, and applies custom regexp masks.
type Masker struct {
	fieldMaskers []fieldMasker
}

var _ StringMasker = (*Masker)(nil)

// NewMasker creates a new Masker. It panics if a custom mask contains an invalid regular expression.
func NewMasker(rules []MaskingRuleConfig) *Masker {
	m := &Masker{fieldMaskers: make([]fieldMasker, 0, len(rules))}
	for _, rule := range rules {
		m.fieldMaskers = append(m.fieldMaskers, newFieldMasker(rule))
	}
	return m
}

func newFieldMasker(rule MaskingRuleConfig) fieldMasker {
	fm := fieldMasker{field: strings.ToLower(rule.Field), masks: make([]mask, 0, len(rule.Masks)+len(rule.Formats))}
	for _, maskCfg := range rule.Masks {
		fm.masks = append(fm.masks, mask{regexp.MustCompile(maskCfg.RegExp), maskCfg.Mask})
	}
	quoted := regexp.QuoteMeta(rule.Field)
	for _, format := range rule.Formats {
		switch format {
		case FieldMaskFormatHTTPHeader:
			fm.masks = append(fm.masks, mask{
				regexp.MustCompile(`(?i)` + quoted + `: .+?\r\n`), rule.Field + ": ***\r\n"})
		case FieldMaskFormatJSON:
			fm.masks = append(fm.masks, mask{
				regexp.MustCompile(`(?i)"` + quoted + `"\s*:\s*".*?[^\\]"`), `"` + rule.Field + `": "***"`})
		case FieldMaskFormatURLEncoded:
			fm.masks = append(fm.masks, mask{
				regexp.MustCompile(`(?i)` + quoted + `\s*=\s*[^&\s]+`), rule.Field + "=***"})
		}
	}
	return fm
}

// Mask returns s with all secrets replaced.
func (m *Masker) Mask(s string) string {
	lower := strings.ToLower(s)
	for _, fm := range m.fieldMaskers {
		if !strings.Contains(lower, fm.field) {
			continue
		}
		for _, msk := range fm.masks {
			s = msk.re.ReplaceAllString(s, msk.replacement)
		}
	}
	return s
}

// DefaultMasks are applied when masking is enabled and masking.useDefaultRules is true.
// They cover the document signature and common credentials.
var DefaultMasks = []MaskingRuleConfig{
	{
		Field:   "Signature",
		Formats: []FieldMaskFormat{FieldMaskFormatHTTPHeader},
	},
	{
		Field:   "signature",
		Formats: []FieldMaskFormat{FieldMaskFormatJSON, FieldMaskFormatURLEncoded},
	},
	{
		Field:   "Authorization",
		Formats: []FieldMaskFormat{FieldMaskFormatHTTPHeader},
	},
	{
		Field:   "password",
		Formats: []FieldMaskFormat{FieldMaskFormatJSON, FieldMaskFormatURLEncoded},
	},
	{
		Field:   "access_token",
		Formats: []FieldMaskFormat{FieldMaskFormatJSON, FieldMaskFormatURLEncoded},
	},
}
