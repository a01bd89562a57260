// Package societary maps corporate-registry JSON records to editable tables
// and merges the edited tables back onto the original document.
package societary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// Top-level keys of a registry record.
const (
	KeyCompanyName     = "company_name"
	KeyCNPJ            = "cnpj"
	KeyNIRE            = "nire"
	KeyAddress         = "address"
	KeyZipCode         = "zip_code"
	KeyPartners        = "partners"
	KeyNewPartners     = "new_partners"
	KeyLeavingPartners = "leaving_partners"
)

// Partner keys, in display order.
const (
	KeyPartnerName        = "partner_name"
	KeyCPFCNPJ            = "cpf_cnpj"
	KeyRepresentedBy      = "represented_by"
	KeyPartnerAddress     = "address"
	KeyParticipationValue = "participation_value"
	KeyQualification      = "qualification"
)

var (
	recordKeys = []string{
		KeyCompanyName, KeyCNPJ, KeyNIRE, KeyAddress, KeyZipCode,
		KeyPartners, KeyNewPartners, KeyLeavingPartners,
	}
	PartnerKeys = []string{
		KeyPartnerName, KeyCPFCNPJ, KeyRepresentedBy,
		KeyPartnerAddress, KeyParticipationValue, KeyQualification,
	}
)

// ErrNotObject is returned when the document is valid JSON but not an object.
var ErrNotObject = errors.New("registry record must be a JSON object")

// SyntaxError wraps a JSON decoding failure.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string { return "invalid json: " + e.Err.Error() }
func (e *SyntaxError) Unwrap() error { return e.Err }

// Partner is one entry of the partner list.
type Partner struct {
	Name               Field
	CPFCNPJ            Field
	RepresentedBy      Field
	Address            Field
	ParticipationValue Field
	Qualification      Field

	// Extra holds keys beyond the six recognised ones.
	Extra map[string]json.RawMessage

	keys []string
}

func (p *Partner) field(key string) *Field {
	switch key {
	case KeyPartnerName:
		return &p.Name
	case KeyCPFCNPJ:
		return &p.CPFCNPJ
	case KeyRepresentedBy:
		return &p.RepresentedBy
	case KeyPartnerAddress:
		return &p.Address
	case KeyParticipationValue:
		return &p.ParticipationValue
	case KeyQualification:
		return &p.Qualification
	}
	return nil
}

// Get returns the value stored under key, recognised or extra.
func (p *Partner) Get(key string) Field {
	if f := p.field(key); f != nil {
		return *f
	}
	if raw, ok := p.Extra[key]; ok {
		return Field{raw: raw}
	}
	return Field{}
}

// Set stores a value under key, recognised or extra.
func (p *Partner) Set(key string, f Field) {
	if !slices.Contains(p.keys, key) {
		p.keys = append(p.keys, key)
	}
	if dst := p.field(key); dst != nil {
		*dst = f
		return
	}
	if p.Extra == nil {
		p.Extra = map[string]json.RawMessage{}
	}
	p.Extra[key] = f.raw
}

// Keys lists the partner's keys in document order.
func (p *Partner) Keys() []string {
	return orderedKeys(p.keys, PartnerKeys, p.Extra, func(k string) bool {
		return p.Get(k).Present()
	})
}

func parsePartner(raw json.RawMessage) (Partner, error) {
	members, err := decodeObject(raw)
	if err != nil {
		return Partner{}, err
	}
	var p Partner
	for _, m := range members {
		p.Set(m.Key, Field{raw: m.Value})
	}
	return p, nil
}

// MarshalJSON writes keys in document order.
func (p Partner) MarshalJSON() ([]byte, error) {
	keys := p.Keys()
	members := make([]member, 0, len(keys))
	for _, k := range keys {
		members = append(members, member{Key: k, Value: p.Get(k).raw})
	}
	return writeObject(members)
}

func (p Partner) clone() Partner {
	p.Extra = maps.Clone(p.Extra)
	p.keys = slices.Clone(p.keys)
	return p
}

// Record is a corporate-registry document.
type Record struct {
	CompanyName Field
	CNPJ        Field
	NIRE        Field
	Address     Field
	ZipCode     Field

	// Lists are nil when the key is absent or not an array; a non-array
	// value is then kept verbatim in Extra.
	Partners        []Partner
	NewPartners     []Field
	LeavingPartners []Field

	// Extra holds every other top-level key.
	Extra map[string]json.RawMessage

	keys []string
}

func (r *Record) field(key string) *Field {
	switch key {
	case KeyCompanyName:
		return &r.CompanyName
	case KeyCNPJ:
		return &r.CNPJ
	case KeyNIRE:
		return &r.NIRE
	case KeyAddress:
		return &r.Address
	case KeyZipCode:
		return &r.ZipCode
	}
	return nil
}

// Parse decodes a registry record.
func Parse(data []byte) (*Record, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	r := &Record{}
	for _, m := range members {
		r.keys = append(r.keys, m.Key)
		if f := r.field(m.Key); f != nil {
			*f = Field{raw: m.Value}
			continue
		}
		switch m.Key {
		case KeyPartners:
			items, ok := decodeArray(m.Value)
			if !ok {
				r.setExtra(m.Key, m.Value)
				continue
			}
			partners := make([]Partner, 0, len(items))
			for _, item := range items {
				p, err := parsePartner(item)
				if err != nil {
					break
				}
				partners = append(partners, p)
			}
			if len(partners) != len(items) {
				// A list with non-object entries cannot be edited as rows.
				r.setExtra(m.Key, m.Value)
				continue
			}
			r.Partners = partners
		case KeyNewPartners, KeyLeavingPartners:
			items, ok := decodeArray(m.Value)
			if !ok {
				r.setExtra(m.Key, m.Value)
				continue
			}
			names := make([]Field, len(items))
			for i, item := range items {
				names[i] = Field{raw: item}
			}
			if m.Key == KeyNewPartners {
				r.NewPartners = names
			} else {
				r.LeavingPartners = names
			}
		default:
			r.setExtra(m.Key, m.Value)
		}
	}
	return r, nil
}

func (r *Record) setExtra(key string, raw json.RawMessage) {
	if r.Extra == nil {
		r.Extra = map[string]json.RawMessage{}
	}
	r.Extra[key] = raw
}

// Company returns the five company fields in display order.
func (r *Record) Company() []Field {
	return []Field{r.CompanyName, r.CNPJ, r.NIRE, r.Address, r.ZipCode}
}

func (r *Record) get(key string) (json.RawMessage, bool) {
	if f := r.field(key); f != nil {
		return f.raw, f.Present()
	}
	var list any
	switch key {
	case KeyPartners:
		if r.Partners == nil {
			break
		}
		list = r.Partners
	case KeyNewPartners:
		if r.NewPartners == nil {
			break
		}
		list = rawList(r.NewPartners)
	case KeyLeavingPartners:
		if r.LeavingPartners == nil {
			break
		}
		list = rawList(r.LeavingPartners)
	}
	if list != nil {
		b, err := marshalNoEscape(list)
		return b, err == nil
	}
	raw, ok := r.Extra[key]
	return raw, ok
}

func rawList(fields []Field) []json.RawMessage {
	out := make([]json.RawMessage, len(fields))
	for i, f := range fields {
		out[i] = f.raw
		if out[i] == nil {
			out[i] = json.RawMessage("null")
		}
	}
	return out
}

// MarshalJSON writes keys in document order, followed by recognised keys
// added since parsing and then any new extra keys sorted by name.
func (r Record) MarshalJSON() ([]byte, error) {
	keys := orderedKeys(r.keys, recordKeys, r.Extra, func(k string) bool {
		_, ok := r.get(k)
		return ok
	})
	members := make([]member, 0, len(keys))
	for _, k := range keys {
		raw, _ := r.get(k)
		members = append(members, member{Key: k, Value: raw})
	}
	return writeObject(members)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	out := *r
	out.Extra = maps.Clone(r.Extra)
	out.keys = slices.Clone(r.keys)
	out.NewPartners = slices.Clone(r.NewPartners)
	out.LeavingPartners = slices.Clone(r.LeavingPartners)
	if r.Partners != nil {
		out.Partners = make([]Partner, len(r.Partners))
		for i, p := range r.Partners {
			out.Partners[i] = p.clone()
		}
	}
	return &out
}

// Export encodes the record as indented JSON without HTML escaping.
func Export(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// orderedKeys returns the document keys still present, then known keys that
// are present but were not in the document, then remaining extra keys sorted.
func orderedKeys(doc, known []string, extra map[string]json.RawMessage, present func(string) bool) []string {
	seen := make(map[string]bool, len(doc))
	var out []string
	add := func(k string) {
		if !seen[k] && present(k) {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range doc {
		add(k)
	}
	for _, k := range known {
		add(k)
	}
	rest := make([]string, 0, len(extra))
	for k := range extra {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		add(k)
	}
	return out
}
