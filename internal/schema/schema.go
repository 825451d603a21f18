// =============================================================================
// Registration Backfill - Sheet Layouts
// =============================================================================
//
// This package defines the two worksheet layouts the tool understands:
//
//   交貨清單 (delivery list)      - one row per purchase-order line
//   編目箱單 (cataloging box list) - one row per registered physical copy
//
// Column names are the literal headers used by the acquisitions and
// cataloging teams. They are hard-coded on purpose: the tool reconciles this
// one pair of documents and nothing else.
//
// =============================================================================

package schema

import "github.com/ginjaninja78/registration-backfill/internal/table"

// =============================================================================
// DELIVERY LIST COLUMNS
// =============================================================================

const (
	ColSeq           = "序號"
	ColOrderSerial   = "採購序號"
	ColOrigSerial    = "原始序號"
	ColBoxNo         = "箱號"
	ColRegNo         = "登錄號"
	ColTitle         = "書名"
	ColAuthor        = "作者"
	ColPublisher     = "出版社"
	ColPubYear       = "出版年"
	ColISBN          = "ISBN"
	ColLocation      = "館藏地代碼"
	ColMaterialType  = "資料類型/特藏號"
	ColListPrice     = "定價"
	ColDiscountPrice = "折扣價"
	ColTotalCopies   = "總冊數"
	ColQuantity      = "數量"
	ColSubtotal      = "小計"
	ColTopic         = "主題分類"
	ColAward1        = "得獎/推薦1"
	ColAward2        = "得獎/推薦2"
	ColSetOrCopy     = "套書/複本"
	ColListSource    = "書單來源"
	ColClassNo       = "分類號"
	ColVolumes       = "冊數"
	ColUnit          = "單位"
)

// =============================================================================
// CATALOGING BOX LIST COLUMNS
// =============================================================================

const (
	CatCataloger    = "編目員"
	CatBoxNo        = "箱號"
	CatSeq          = "序號"
	CatOrderSerial  = "原序號"
	CatRegNo        = "登錄號"
	CatType         = "類型"
	CatClassNo      = "分類號"
	CatAuthorNo     = "作者號"
	CatEra          = "年代"
	CatVolumePart   = "部冊號"
	CatBibliography = "書目"
	CatOldRegNo     = "舊登錄號"
	CatLocation     = "F10"
	CatMaterialType = "F11"
	CatPubYear      = "F14"
	CatISBN         = "F24 805ISBN"
)

// SentinelBoxedSet is written into the registration number of the
// annotation row that heads a boxed set.
const SentinelBoxedSet = "套書"

// TotalLabel is the title of the totals row.
const TotalLabel = "合計"

// =============================================================================
// LAYOUT
// =============================================================================

// Layout describes where a table lives in a workbook and what it is
// expected to look like.
type Layout struct {
	// Sheet is the worksheet name. Empty means every sheet in the workbook.
	Sheet string

	// HeaderRow is the 0-based row index holding the column names.
	HeaderRow int

	// Columns is the expected column set, in sheet order.
	Columns []string

	// Kinds declares the type of the typed columns. Others are text.
	Kinds map[string]table.Kind
}

// Delivery returns the layout of the delivery list.
func Delivery() Layout {
	return Layout{
		Sheet:     "交貨清單",
		HeaderRow: 2,
		Columns: []string{
			ColSeq, ColOrderSerial, ColOrigSerial, ColBoxNo, ColRegNo, ColTitle,
			ColAuthor, ColPublisher, ColPubYear, ColISBN, ColLocation,
			ColMaterialType, ColListPrice, ColDiscountPrice, ColTotalCopies,
			ColQuantity, ColSubtotal, ColTopic, ColAward1, ColAward2,
			ColSetOrCopy, ColListSource, ColClassNo, ColVolumes, ColUnit,
		},
		Kinds: map[string]table.Kind{
			ColOrderSerial:   table.KindInt,
			ColListPrice:     table.KindInt,
			ColDiscountPrice: table.KindDecimal,
			ColTotalCopies:   table.KindInt,
			ColQuantity:      table.KindInt,
			ColSubtotal:      table.KindDecimal,
			ColVolumes:       table.KindInt,
		},
	}
}

// Catalog returns the layout of the cataloging box list. Every sheet of the
// workbook is read and concatenated.
func Catalog() Layout {
	return Layout{
		HeaderRow: 1,
		Columns: []string{
			CatCataloger, CatBoxNo, CatSeq, CatOrderSerial, CatRegNo, CatType,
			CatClassNo, CatAuthorNo, CatEra, CatVolumePart, CatBibliography,
			CatOldRegNo, CatLocation, CatMaterialType, "F12", "F13", CatPubYear,
			"F15", "F16", "F17", "F18", "F19 裝訂", "F20 010d", "F21 805購價",
			"F22 805Note", "F23 805Attach", CatISBN, "F25 805FLDY", "F26 805LOC",
			"F27 805ISSNOTE", "F28 805CallNo", "F29 805d", "F30 681a", "F31 681v",
			"F32", "F33", "F34", "F35", "F36",
		},
		Kinds: map[string]table.Kind{
			CatBoxNo:       table.KindInt,
			CatOrderSerial: table.KindInt,
		},
	}
}

// ReducedColumns is the delivery column subset used for the rows of a
// boxed set and for the second and later copies of a multi-copy line.
// Price, quantity and count columns are left out so totals are not counted
// twice.
func ReducedColumns() []string {
	return []string{
		ColSeq, ColOrderSerial, ColOrigSerial, ColBoxNo, ColRegNo, ColTitle,
		ColAuthor, ColPublisher, ColPubYear, ColISBN, ColLocation,
		ColMaterialType, ColTopic, ColAward1, ColAward2, ColSetOrCopy,
		ColListSource, ColClassNo,
	}
}
