package payload

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Doc is a parsed webhook body. HighLevel emits the same logical field under
// several shapes depending on the trigger (customData, root, nested contact
// or opportunity objects), so every accessor takes an ordered list of dotted
// paths and returns the first usable value.
type Doc map[string]any

func Parse(body []byte) (Doc, error) {
	var d Doc
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("payload inválido: %w", err)
	}
	return d, nil
}

// lookup walks a dotted path. The second return reports whether the final
// key existed at all, regardless of its value.
func (d Doc) lookup(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(decimal.NewFromFloat(t).String())
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// String returns the first non-empty trimmed value among paths, or nil.
func (d Doc) String(paths ...string) *string {
	for _, p := range paths {
		v, ok := d.lookup(p)
		if !ok || v == nil {
			continue
		}
		if s := asString(v); s != "" {
			return &s
		}
	}
	return nil
}

// Presence distinguishes a key that arrived empty from one that never
// arrived. value is nil when every present value trims to empty.
func (d Doc) Presence(paths ...string) (value *string, present bool) {
	for _, p := range paths {
		v, ok := d.lookup(p)
		if !ok {
			continue
		}
		present = true
		if v == nil {
			continue
		}
		if s := asString(v); s != "" {
			return &s, true
		}
	}
	return nil, present
}

var nonNumeric = regexp.MustCompile(`[^\d,.\-]`)

// ParseDecimal turns a free-form monetary string into a decimal. Currency
// symbols and spaces are stripped; "1,234.50" uses comma as thousands
// separator while a lone comma ("12,5") is a decimal separator. Unparsable
// input yields nil.
func ParseDecimal(raw string) *decimal.Decimal {
	s := nonNumeric.ReplaceAllString(raw, "")
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &dec
}

// Decimal resolves paths like String and parses the result as a number.
func (d Doc) Decimal(paths ...string) *decimal.Decimal {
	for _, p := range paths {
		v, ok := d.lookup(p)
		if !ok || v == nil {
			continue
		}
		if f, isNum := v.(float64); isNum {
			dec := decimal.NewFromFloat(f)
			return &dec
		}
		if dec := ParseDecimal(asString(v)); dec != nil {
			return dec
		}
	}
	return nil
}

var soloDigitos = regexp.MustCompile(`\D`)

// NormalizePhone keeps the last 9 digits of the input. Returns "" when fewer
// than 9 digits remain.
func NormalizePhone(raw string) string {
	digits := soloDigitos.ReplaceAllString(raw, "")
	if len(digits) < 9 {
		return ""
	}
	return digits[len(digits)-9:]
}

// PhoneE164 canonicalizes a Peruvian mobile number to "+51" plus 9 digits.
func PhoneE164(raw string) *string {
	local := NormalizePhone(raw)
	if local == "" {
		return nil
	}
	e164 := "+51" + local
	return &e164
}

var ordinales = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

var formatosFecha = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"02/01/2006",
}

// ParseDate accepts the date shapes HighLevel forms produce: ISO, month-name
// with or without ordinal suffix ("Jul 16th 2001"), and a year-less "Nov 11"
// which assumes the current year. Invalid input yields nil.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(ordinales.ReplaceAllString(raw, "$1"))
	if s == "" {
		return nil
	}
	for _, layout := range formatosFecha {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	for _, layout := range []string{"Jan 2", "January 2"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(time.Now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}

// CustomFieldByName scans the customFields array (under contact or at the
// root) for an entry whose name contains sub, case-insensitive, and returns
// its trimmed value. Matching by name instead of field id keeps the mapping
// stable across CRM sub-accounts.
func (d Doc) CustomFieldByName(sub string) *string {
	sub = strings.ToLower(sub)
	for _, p := range []string{"contact.customFields", "customFields"} {
		v, ok := d.lookup(p)
		if !ok {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["name"].(string)
			if !strings.Contains(strings.ToLower(name), sub) {
				continue
			}
			if s := asString(m["value"]); s != "" {
				return &s
			}
		}
	}
	return nil
}

// ParseDateTime keeps the time component when the input carries one and
// falls back to the date-only shapes otherwise.
func ParseDateTime(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return ParseDate(s)
}

// DateTime resolves paths and keeps the first timestamp that parses.
func (d Doc) DateTime(paths ...string) *time.Time {
	for _, p := range paths {
		v, ok := d.lookup(p)
		if !ok || v == nil {
			continue
		}
		if t := ParseDateTime(asString(v)); t != nil {
			return t
		}
	}
	return nil
}

// Date resolves paths and normalizes the first value that parses.
func (d Doc) Date(paths ...string) *time.Time {
	for _, p := range paths {
		v, ok := d.lookup(p)
		if !ok || v == nil {
			continue
		}
		if t := ParseDate(asString(v)); t != nil {
			return t
		}
	}
	return nil
}
