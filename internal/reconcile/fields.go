// =============================================================================
// Registration Backfill - Field Mapping
// =============================================================================
//
// The two documents name the same data differently (書名 vs 書目, ISBN vs
// F24 805ISBN, ...). FieldMap pairs each logical field with its column in
// both documents; Rules lists which fields are copied and which are only
// compared.
//
// =============================================================================

package reconcile

import "github.com/ginjaninja78/registration-backfill/internal/schema"

// Logical field names shared by both documents.
const (
	FieldOrderSerial  = "採購序號"
	FieldTitle        = "書名"
	FieldISBN         = "ISBN"
	FieldBoxNo        = "箱號"
	FieldRegNo        = "登錄號"
	FieldClassNo      = "分類號"
	FieldLocation     = "館藏地代碼"
	FieldMaterialType = "資料類型/特藏號"
	FieldPubYear      = "出版年"
	FieldVolumePart   = "部冊號"
)

// Field names the column that holds one logical field in each document.
type Field struct {
	Logical  string
	Delivery string
	Catalog  string
}

// FieldMap is the two-sided column mapping between the delivery list and
// the cataloging box list.
type FieldMap []Field

// Lookup returns the mapping of a logical field.
func (m FieldMap) Lookup(logical string) (Field, bool) {
	for _, f := range m {
		if f.Logical == logical {
			return f, true
		}
	}
	return Field{}, false
}

// DefaultFieldMap returns the mapping used by the acquisitions and
// cataloging sheets.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		{FieldOrderSerial, schema.ColOrderSerial, schema.CatOrderSerial},
		{FieldTitle, schema.ColTitle, schema.CatBibliography},
		{FieldISBN, schema.ColISBN, schema.CatISBN},
		{FieldBoxNo, schema.ColBoxNo, schema.CatBoxNo},
		{FieldRegNo, schema.ColRegNo, schema.CatRegNo},
		{FieldClassNo, schema.ColClassNo, schema.CatClassNo},
		{FieldLocation, schema.ColLocation, schema.CatLocation},
		{FieldMaterialType, schema.ColMaterialType, schema.CatMaterialType},
		{FieldPubYear, schema.ColPubYear, schema.CatPubYear},
		// The volume/part number has no column of its own in the delivery
		// list; it is appended to the title.
		{FieldVolumePart, schema.ColTitle, schema.CatVolumePart},
	}
}

// Rules controls how a catalog row is merged into a delivery row.
type Rules struct {
	// Fields is the column mapping.
	Fields FieldMap

	// Replace lists the logical fields copied from the catalog row, in the
	// order they are applied.
	Replace []string

	// Checks lists the logical fields compared before merging. A mismatch
	// is logged, never fatal.
	Checks []string

	// Reduced is the delivery column subset written for boxed-set rows and
	// for the second and later rows of a multi-copy line.
	Reduced []string

	// Sentinel is the registration number written on a boxed-set
	// annotation row.
	Sentinel string

	// TotalCopies, Volumes and Quantity name the delivery count columns.
	TotalCopies string
	Volumes     string
	Quantity    string
}

// DefaultRules returns the rules for the delivery/catalog pair.
func DefaultRules() Rules {
	return Rules{
		Fields: DefaultFieldMap(),
		Replace: []string{
			FieldBoxNo,
			FieldRegNo,
			FieldClassNo,
			FieldLocation,
			FieldMaterialType,
			FieldPubYear,
			FieldVolumePart,
			FieldISBN,
		},
		Checks:      []string{FieldTitle, FieldISBN},
		Reduced:     schema.ReducedColumns(),
		Sentinel:    schema.SentinelBoxedSet,
		TotalCopies: schema.ColTotalCopies,
		Volumes:     schema.ColVolumes,
		Quantity:    schema.ColQuantity,
	}
}
