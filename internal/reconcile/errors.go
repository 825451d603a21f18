// =============================================================================
// Registration Backfill - Reconciliation Errors
// =============================================================================
//
// Every fatal condition carries the order-serial and the serial, ISBN and
// title of each delivery and catalog row involved, so the source sheets can
// be corrected by hand.
//
// =============================================================================

package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal reconciliation conditions. Match them with errors.Is.
var (
	// ErrDuplicateDelivery means an order-serial resolves to more than one
	// delivery row.
	ErrDuplicateDelivery = errors.New("duplicate delivery entry for order-serial")

	// ErrCountMismatch means the number of catalog rows differs from the
	// delivery row's total copy count.
	ErrCountMismatch = errors.New("copy-count mismatch between delivery and catalog")

	// ErrAbnormalQuantity means several catalog rows matched but the
	// delivery row is neither a boxed set nor a multi-copy line.
	ErrAbnormalQuantity = errors.New("abnormal copy-count/quantity combination")
)

// RowInfo identifies a row in an error message.
type RowInfo struct {
	Serial string
	ISBN   string
	Title  string
}

// String renders the row the way operators look it up in the sheet.
func (ri RowInfo) String() string {
	return fmt.Sprintf("採購序號 %s, ISBN %s, 書名 '%s'", ri.Serial, ri.ISBN, ri.Title)
}

// Error is a fatal reconciliation error with enough row context to fix the
// source spreadsheets by hand.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Key is the order-serial being reconciled.
	Key string

	// Detail holds extra numbers, e.g. expected and actual counts.
	Detail string

	// Delivery and Catalog list the rows involved.
	Delivery []RowInfo
	Catalog  []RowInfo
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Key, e.Kind)
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	for _, ri := range e.Delivery {
		fmt.Fprintf(&b, "\n  交貨清單: %s", ri)
	}
	for _, ri := range e.Catalog {
		fmt.Fprintf(&b, "\n  編目箱單: %s", ri)
	}
	return b.String()
}

// Unwrap returns the sentinel kind.
func (e *Error) Unwrap() error {
	return e.Kind
}
