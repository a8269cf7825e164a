package incrementer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/uofuseismo/umps/internal/uerrors"
)

func newTestCounter(t *testing.T) *Counter {
	t.Helper()
	file := filepath.Join(t.TempDir(), "counters.sqlite3")
	c, err := Open(file, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCounterMonotonicity(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Origin", 0, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	var last int64
	for i := 0; i < 5; i++ {
		next, err := c.GetNextValue("Origin")
		if err != nil {
			t.Fatalf("GetNextValue: %v", err)
		}
		if next <= last {
			t.Fatalf("counter not monotonic: %d <= %d", next, last)
		}
		last = next
	}
}

// TestCounterStrideMatchesConfiguredIncrement is scenario S2: initial=5,
// increment=5 must produce successive values 10, then 15.
func TestCounterStrideMatchesConfiguredIncrement(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Event", 5, 5); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	first, err := c.GetNextValue("Event")
	if err != nil {
		t.Fatalf("GetNextValue: %v", err)
	}
	if first != 10 {
		t.Fatalf("expected 10, got %d", first)
	}
	second, err := c.GetNextValue("Event")
	if err != nil {
		t.Fatalf("GetNextValue: %v", err)
	}
	if second != 15 {
		t.Fatalf("expected 15, got %d", second)
	}
}

func TestCounterDefaultItems(t *testing.T) {
	c := newTestCounter(t)
	for _, item := range DefaultItems {
		if err := c.AddItem(item, 0, 1); err != nil {
			t.Fatalf("AddItem(%s): %v", item, err)
		}
	}
	items, err := c.GetItems()
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != len(DefaultItems) {
		t.Fatalf("expected %d items, got %d", len(DefaultItems), len(items))
	}
	for _, item := range DefaultItems {
		if !c.HaveItem(item) {
			t.Fatalf("expected HaveItem(%s) to be true", item)
		}
	}
}

func TestCounterUnknownItem(t *testing.T) {
	c := newTestCounter(t)
	if _, err := c.GetNextValue("NoSuchItem"); err == nil {
		t.Fatal("expected error for unregistered item")
	}
}

func TestCounterGetNextValueOverflow(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Saturated", math.MaxInt64-1, 5); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := c.GetNextValue("Saturated"); !uerrors.Is(err, uerrors.AlgorithmFailure) {
		t.Fatalf("expected AlgorithmFailure on overflow, got %v", err)
	}
}

func TestCounterResetAndCurrentValue(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Magnitude", 10, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := c.GetNextValue("Magnitude"); err != nil {
		t.Fatalf("GetNextValue: %v", err)
	}
	if err := c.Reset("Magnitude"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	value, err := c.GetCurrentValue("Magnitude")
	if err != nil {
		t.Fatalf("GetCurrentValue: %v", err)
	}
	if value != 10 {
		t.Fatalf("expected reset value 10, got %d", value)
	}
}

func TestCounterResetAllRestoresEveryItem(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Magnitude", 10, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := c.AddItem("Origin", 0, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := c.GetNextValue("Magnitude"); err != nil {
		t.Fatalf("GetNextValue: %v", err)
	}
	if _, err := c.GetNextValue("Origin"); err != nil {
		t.Fatalf("GetNextValue: %v", err)
	}
	if err := c.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	magnitude, err := c.GetCurrentValue("Magnitude")
	if err != nil || magnitude != 10 {
		t.Fatalf("expected Magnitude reset to 10, got %d (err %v)", magnitude, err)
	}
	origin, err := c.GetCurrentValue("Origin")
	if err != nil || origin != 0 {
		t.Fatalf("expected Origin reset to 0, got %d (err %v)", origin, err)
	}
}

func TestCounterAddItemRejectsDuplicateName(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Event", 5, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	err := c.AddItem("Event", 999, 1)
	if !uerrors.Is(err, uerrors.InvalidArgument) {
		t.Fatalf("expected InvalidArgument re-adding an existing item, got %v", err)
	}
	value, err := c.GetCurrentValue("Event")
	if err != nil {
		t.Fatalf("GetCurrentValue: %v", err)
	}
	if value != 5 {
		t.Fatalf("expected rejected re-add to leave the value untouched, got %d", value)
	}
}

func TestCounterAddItemRejectsNonPositiveIncrement(t *testing.T) {
	c := newTestCounter(t)
	if err := c.AddItem("Event", 0, 0); !uerrors.Is(err, uerrors.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for increment == 0, got %v", err)
	}
	if err := c.AddItem("Event", 0, -1); !uerrors.Is(err, uerrors.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for increment < 0, got %v", err)
	}
	if c.HaveItem("Event") {
		t.Fatal("expected rejected AddItem to not register the item")
	}
}
