package societary

import (
	"slices"

	"github.com/JonMunkholm/toolbox/internal/table"
)

// Column names used by the flattened views.
const (
	ColField = "Field"
	ColValue = "Value"
	ColName  = "Name"
)

// CompanyLabels are the row labels of the company view, in record order.
var CompanyLabels = []string{"Company Name", "CNPJ", "NIRE", "Address", "ZIP Code"}

var labelKeys = map[string]string{
	"Company Name": KeyCompanyName,
	"CNPJ":         KeyCNPJ,
	"NIRE":         KeyNIRE,
	"Address":      KeyAddress,
	"ZIP Code":     KeyZipCode,
}

// Views are the four editable tables of a record.
type Views struct {
	Company  *table.Table
	Partners *table.Table
	Incoming *table.Table
	Outgoing *table.Table
}

// Flatten builds the editable views of r. Empty lists give empty tables.
func Flatten(r *Record) Views {
	company := &table.Table{Columns: []string{ColField, ColValue}}
	for i, f := range r.Company() {
		company.Rows = append(company.Rows, []table.Value{CompanyLabels[i], f.Value()})
	}
	return Views{
		Company:  company,
		Partners: partnerTable(r.Partners),
		Incoming: nameTable(r.NewPartners),
		Outgoing: nameTable(r.LeavingPartners),
	}
}

// partnerTable lists recognised columns used by any partner, then extra
// columns in first-seen order.
func partnerTable(partners []Partner) *table.Table {
	t := &table.Table{}
	if len(partners) == 0 {
		return t
	}
	for _, k := range PartnerKeys {
		for i := range partners {
			if partners[i].Get(k).Present() {
				t.Columns = append(t.Columns, k)
				break
			}
		}
	}
	for i := range partners {
		for _, k := range partners[i].Keys() {
			if !slices.Contains(PartnerKeys, k) && !slices.Contains(t.Columns, k) {
				t.Columns = append(t.Columns, k)
			}
		}
	}
	for i := range partners {
		row := make([]table.Value, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = partners[i].Get(c).Value()
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func nameTable(names []Field) *table.Table {
	if len(names) == 0 {
		return &table.Table{}
	}
	t := &table.Table{Columns: []string{ColName}}
	for _, n := range names {
		t.Rows = append(t.Rows, []table.Value{n.Value()})
	}
	return t
}

// Merge applies edited views onto a copy of original. Only what the views
// represent is overwritten:
//   - company rows by label, ignoring unknown labels;
//   - the partner list, replaced as a whole when the partner view has rows;
//   - incoming and outgoing lists, replaced when their views have rows.
//
// Values whose display text is unchanged keep their original encoding.
// Partner keys that are not columns of the partner view are dropped.
func Merge(original *Record, v Views) (*Record, error) {
	out := original.Clone()

	if v.Company != nil && v.Company.Len() > 0 {
		fi := v.Company.ColumnIndex(ColField)
		vi := v.Company.ColumnIndex(ColValue)
		if fi < 0 {
			return nil, &table.ColumnError{Column: ColField}
		}
		if vi < 0 {
			return nil, &table.ColumnError{Column: ColValue}
		}
		for _, row := range v.Company.Rows {
			key, ok := labelKeys[table.Format(row[fi])]
			if !ok {
				continue
			}
			f := out.field(key)
			if !f.Present() && row[vi] == nil {
				continue
			}
			*f = keepOrReplace(*f, row[vi])
		}
	}

	if v.Partners != nil && v.Partners.Len() > 0 {
		partners := make([]Partner, len(v.Partners.Rows))
		for i, row := range v.Partners.Rows {
			var base Partner
			if i < len(original.Partners) {
				base = original.Partners[i]
			}
			partners[i] = mergePartner(base, v.Partners.Columns, row)
		}
		out.Partners = partners
		delete(out.Extra, KeyPartners)
	}

	if names, ok, err := mergeNames(original.NewPartners, v.Incoming); err != nil {
		return nil, err
	} else if ok {
		out.NewPartners = names
		delete(out.Extra, KeyNewPartners)
	}
	if names, ok, err := mergeNames(original.LeavingPartners, v.Outgoing); err != nil {
		return nil, err
	} else if ok {
		out.LeavingPartners = names
		delete(out.Extra, KeyLeavingPartners)
	}
	return out, nil
}

// mergePartner builds a partner from a view row. Missing cells drop the key.
func mergePartner(base Partner, columns []string, row []table.Value) Partner {
	var p Partner
	for _, k := range base.Keys() {
		j := slices.Index(columns, k)
		if j < 0 {
			continue
		}
		if row[j] == nil {
			if orig := base.Get(k); orig.String() == "" {
				p.Set(k, orig)
			}
			continue
		}
		p.Set(k, keepOrReplace(base.Get(k), row[j]))
	}
	for j, c := range columns {
		if row[j] == nil || p.Get(c).Present() {
			continue
		}
		p.Set(c, FieldOf(row[j]))
	}
	return p
}

func mergeNames(orig []Field, view *table.Table) ([]Field, bool, error) {
	if view == nil || view.Len() == 0 {
		return nil, false, nil
	}
	ci := view.ColumnIndex(ColName)
	if ci < 0 {
		return nil, false, &table.ColumnError{Column: ColName}
	}
	names := make([]Field, 0, view.Len())
	for i, row := range view.Rows {
		var base Field
		if i < len(orig) {
			base = orig[i]
		}
		if row[ci] == nil {
			if base.Present() && base.String() == "" {
				names = append(names, base)
			}
			continue
		}
		names = append(names, keepOrReplace(base, row[ci]))
	}
	return names, true, nil
}
