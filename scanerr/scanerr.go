// Package scanerr implements the error taxonomy surfaced to callers of
// catalog.Scan: TransportError, BufferOverflow, CipStatusError, and
// DecodeError, plus the general- and extended-status message lookup
// tables a CipStatusError formats its message from.
package scanerr

import "fmt"

// TransportError wraps a send/receive failure or timeout from the
// downstream transport collaborator.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BufferOverflow is reported when the transport's Receive indicates a
// response larger than the caller-supplied receive buffer.
type BufferOverflow struct {
	NeededBytes    int
	CapacityBytes  int
}

func (e *BufferOverflow) Error() string {
	return fmt.Sprintf("receive buffer overflow: response needs %d bytes, buffer has %d", e.NeededBytes, e.CapacityBytes)
}

// CipStatusError is returned when a CIP response's general status is
// non-zero. Its message embeds the general and extended status codes plus
// any messages found in the lookup tables below.
type CipStatusError struct {
	GeneralStatus   byte
	ExtendedStatus  []byte
}

func (e *CipStatusError) Error() string {
	msg := fmt.Sprintf("Received error status in CIP response: 0x%02x", e.GeneralStatus)

	// The extended status value is appended whenever any bytes are present,
	// regardless of width; only the message-table lookup below is
	// restricted to the 2-byte (16-bit word) case the table is keyed on.
	if len(e.ExtendedStatus) > 0 {
		msg += fmt.Sprintf(", extended: 0x%0*x", len(e.ExtendedStatus)*2, extendedStatusValue(e.ExtendedStatus))
	}

	var extWord uint16
	hasExtWord := len(e.ExtendedStatus) == 2
	if hasExtWord {
		extWord = uint16(e.ExtendedStatus[0]) | uint16(e.ExtendedStatus[1])<<8
	}

	genMsg := GeneralStatusMessage(e.GeneralStatus)
	extMsg := ""
	if hasExtWord {
		extMsg = ExtendedStatusMessage(extWord)
	}

	switch {
	case genMsg != "" && extMsg != "":
		msg += fmt.Sprintf(" - %s, %s", genMsg, extMsg)
	case genMsg != "":
		msg += fmt.Sprintf(" - %s", genMsg)
	case extMsg != "":
		msg += fmt.Sprintf(" - %s", extMsg)
	}
	return msg
}

// extendedStatusValue interprets the extended status bytes as a
// little-endian unsigned integer, matching the byte order CIP uses for
// the 2-byte case the message table is keyed on.
func extendedStatusValue(b []byte) uint64 {
	var v uint64
	for i, by := range b {
		v |= uint64(by) << (8 * i)
	}
	return v
}

// DecodeError names the logical record that failed a sticky-error or
// length-consistency check (e.g. "instance=7", "tag=Counter").
type DecodeError struct {
	Record string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at %s: %s", e.Record, e.Reason)
}

// GeneralStatusMessage looks up the human-readable meaning of a CIP
// general status byte. A missing entry yields "", not an error: the table
// is data, not a completeness guarantee.
//
// Source: Rockwell Automation CIP general status code reference.
func GeneralStatusMessage(status byte) string {
	return generalStatusTable[status]
}

// ExtendedStatusMessage looks up the human-readable meaning of a 16-bit
// extended status word. Entries are Omron vendor-specific codes.
func ExtendedStatusMessage(status uint16) string {
	return extendedStatusTable[status]
}

var generalStatusTable = map[byte]string{
	0x00: "Success",
	0x01: "Connection Failure",
	0x02: "Resource Unavailable",
	0x03: "Invalid Parameter Value",
	0x04: "Path Segment Error",
	0x05: "Path Destination Error",
	0x07: "Connection Lost",
	0x09: "Invalid Attribute Value",
	0x0C: "Object State Conflict",
	0x11: "Reply Data Too Large",
	0x13: "Not Enough Data",
	0x15: "Too Much Data",
	0x1F: "Vendor Specific Error",
	0x20: "Invalid Parameter",
}

var extendedStatusTable = map[uint16]string{
	0x8010: "Downloading, starting up",
	0x8011: "Tag memory error",
	0x0102: "The read target is a variable I/O that cannot be read.",
	0x2104: "The read target is a variable I/O that cannot be read.",
	0x0104: "An address or size that exceeds the segment area is specified.",
	0x1103: "An address or size that exceeds the segment area is specified.",
	0x8001: "Internal Abnormality",
	0x8007: "An inaccessible variable was specified",
	0x8029: "An area that cannot be accessed in bulk was specified in SimpleDataSegment.",
	0x8031: "Internal error (memory allocation error)",
	0x8009: "Segment Type Abnormal",
	0x800F: "Data length information in the request data is inconsistent",
	0x8017: "Requesting more than one element for a single data item",
	0x8018: "Requesting 0 elements or exceeding the range of array data",
	0x8021: "A value other than 0 or 2 was specified in the AddInfo area.",
	0x8022: "The Data Type of the Request Service Data does not match the type of TAG information. The AddInfo Length of the Request Service Data is not 0.",
	0x8023: "Internal error (invalid command format)",
	0x8024: "Internal error (invalid command length)",
	0x8025: "Internal error (invalid parameter)",
	0x8027: "Internal error (parameter error)",
	0x8028: "A value outside the range was written to a variable with a subrange specified. An undefined value was written to an Enum type variable.",
}
