package enums

import "testing"

func TestDisplayForFoldsWireVocabulary(t *testing.T) {
	cases := []struct {
		in   DeliveryStatus
		want DisplayStatus
	}{
		{DeliveryStatusPending, DisplayStatusPending},
		{DeliveryStatusShipped, DisplayStatusShipped},
		{DeliveryStatusDownloading, DisplayStatusDownloading},
		{DeliveryStatusCompleted, DisplayStatusDownloaded},
		{DeliveryStatusDelivered, DisplayStatusDelivered},
		{DeliveryStatusCancelled, DisplayStatusCancelled},
		{DeliveryStatusFailed, DisplayStatusCancelled},
		{DeliveryStatus("garbage"), DisplayStatusPending},
	}
	for _, tc := range cases {
		if got := DisplayFor(tc.in); got != tc.want {
			t.Fatalf("DisplayFor(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	if _, err := ParseDeliveryStatus("downloading"); err != nil {
		t.Fatalf("expected downloading to parse: %v", err)
	}
	if _, err := ParseDeliveryStatus("unknown"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}
