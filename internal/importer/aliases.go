package importer

import "strings"

// Field is a canonical bill attribute a spreadsheet column can map to.
type Field string

const (
	FieldName    Field = "name"
	FieldAmount  Field = "amount"
	FieldNotes   Field = "notes"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldPackage Field = "package"
)

// Fields lists the canonical fields in export column order.
var Fields = []Field{FieldName, FieldAmount, FieldNotes, FieldPhone, FieldAddress, FieldPackage}

// Aliases maps each canonical field to the column headers accepted for it,
// in priority order. Supporting a new spreadsheet layout means adding a
// header here.
type Aliases map[Field][]string

// DefaultAliases covers the headers used by the billing spreadsheets in the
// field, in Indonesian first and English second.
var DefaultAliases = Aliases{
	FieldName:    {"Nama", "Nama Pelanggan", "Name", "Pelanggan"},
	FieldAmount:  {"Nominal", "Amount", "Tagihan", "Jumlah"},
	FieldNotes:   {"Catatan", "Keterangan", "Notes"},
	FieldPhone:   {"Nomor WhatsApp", "No HP", "WhatsApp", "Telepon", "Phone"},
	FieldAddress: {"Alamat", "Address"},
	FieldPackage: {"Paket", "Paket Internet", "Package"},
}

// With returns a copy of a with extra headers appended to field.
func (a Aliases) With(field Field, headers ...string) Aliases {
	out := make(Aliases, len(a))
	for f, hs := range a {
		out[f] = append([]string(nil), hs...)
	}

	out[field] = append(out[field], headers...)

	return out
}

// Header is the preferred column title for field, used when exporting.
func (a Aliases) Header(field Field) string {
	if hs := a[field]; len(hs) > 0 {
		return hs[0]
	}

	return string(field)
}

// lookup returns the first non-blank value for field. Aliases are tried in
// order and, within an alias, cells in column order. Header comparison is
// trimmed and case-insensitive.
func (a Aliases) lookup(row Row, field Field) (any, bool) {
	for _, alias := range a[field] {
		want := strings.TrimSpace(alias)

		for _, c := range row {
			if !strings.EqualFold(strings.TrimSpace(c.Header), want) {
				continue
			}

			if !blank(c.Value) {
				return c.Value, true
			}
		}
	}

	return nil, false
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}

	return false
}
