package wire

import "testing"

func TestDefaultRegistryRoundTrip(t *testing.T) {
	r := DefaultRegistry()

	value := int64(42)
	original := &IncrementResponse{Value: &value, Identifier: 7, ReturnCode: Success}
	payload, err := original.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	decoded, err := r.Deserialize("IncrementResponse", payload)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	got, ok := decoded.(*IncrementResponse)
	if !ok {
		t.Fatalf("unexpected type %T", decoded)
	}
	if got.Identifier != original.Identifier || got.ReturnCode != original.ReturnCode {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, original)
	}
	if got.Value == nil || *got.Value != value {
		t.Fatalf("value round trip mismatch: got %v", got.Value)
	}
}

func TestDefaultRegistryUnknownType(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.NewEmpty("NotAType"); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}

func TestIncrementRequestCorrelation(t *testing.T) {
	req := &IncrementRequest{Item: "Origin", Identifier: 99}
	payload, err := req.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var decoded IncrementRequest
	if err := decoded.Deserialize(payload); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if decoded.Identifier != req.Identifier {
		t.Fatalf("identifier not preserved: got %d, want %d", decoded.Identifier, req.Identifier)
	}
}

func TestCloneIndependence(t *testing.T) {
	original := &ItemsResponse{Items: []string{"Origin", "Magnitude"}, Identifier: 1, ReturnCode: Success}
	cloned := original.Clone().(*ItemsResponse)
	cloned.Items[0] = "Mutated"
	if original.Items[0] == "Mutated" {
		t.Fatal("clone shares backing array with original")
	}
}
