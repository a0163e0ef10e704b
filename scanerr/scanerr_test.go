package scanerr

import (
	"strings"
	"testing"
)

func TestCipStatusErrorMessageScenarioS5(t *testing.T) {
	err := &CipStatusError{
		GeneralStatus:  0x1F,
		ExtendedStatus: []byte{0x07, 0x80},
	}
	msg := err.Error()

	for _, want := range []string{"0x1f", "0x8007", "Vendor Specific Error", "An inaccessible variable was specified"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing substring %q", msg, want)
		}
	}
}

func TestCipStatusErrorWithoutExtendedStatus(t *testing.T) {
	err := &CipStatusError{GeneralStatus: 0x04}
	msg := err.Error()
	if !strings.Contains(msg, "0x04") || !strings.Contains(msg, "Path Segment Error") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if strings.Contains(msg, "extended") {
		t.Fatalf("message should not mention extended status when none was given: %q", msg)
	}
}

func TestCipStatusErrorWithWideExtendedStatus(t *testing.T) {
	cases := []struct {
		name   string
		status []byte
		want   string
	}{
		{"4 bytes", []byte{0x01, 0x02, 0x03, 0x04}, "0x04030201"},
		{"6 bytes", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, "0x060504030201"},
		{"8 bytes", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, "0x0807060504030201"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := &CipStatusError{GeneralStatus: 0x01, ExtendedStatus: c.status}
			msg := err.Error()
			if !strings.Contains(msg, c.want) {
				t.Fatalf("message %q missing extended value %q", msg, c.want)
			}
		})
	}
}

func TestUnknownStatusYieldsEmptyMessageNotError(t *testing.T) {
	if GeneralStatusMessage(0x99) != "" {
		t.Fatalf("expected empty message for unmapped general status")
	}
	if ExtendedStatusMessage(0x1234) != "" {
		t.Fatalf("expected empty message for unmapped extended status")
	}
}
