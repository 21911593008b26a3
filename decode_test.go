package stripe

import (
	"testing"
	"time"
)

func TestIntField(t *testing.T) {
	m := map[string]any{
		"float":  float64(42),
		"int64":  int64(7),
		"int":    3,
		"string": "42",
	}

	if v, ok := intField(m, "float"); !ok || v != 42 {
		t.Errorf("intField(float) = %d, %v", v, ok)
	}
	if v, ok := intField(m, "int64"); !ok || v != 7 {
		t.Errorf("intField(int64) = %d, %v", v, ok)
	}
	if v, ok := intField(m, "int"); !ok || v != 3 {
		t.Errorf("intField(int) = %d, %v", v, ok)
	}
	if _, ok := intField(m, "string"); ok {
		t.Error("intField accepted a string")
	}
	if _, ok := intField(m, "absent"); ok {
		t.Error("intField reported an absent key present")
	}
}

func TestTimeField(t *testing.T) {
	m := map[string]any{"created": float64(1500000000)}

	got, ok := timeField(m, "created")
	if !ok {
		t.Fatal("timeField() not ok")
	}
	if want := time.Unix(1500000000, 0).UTC(); !got.Equal(want) {
		t.Errorf("timeField() = %v, want %v", got, want)
	}

	if _, ok := timeField(m, "absent"); ok {
		t.Error("timeField reported an absent key present")
	}
}

func TestStringMapField_SkipsNonStrings(t *testing.T) {
	m := map[string]any{
		"metadata": map[string]any{"plan": "gold", "count": float64(3)},
	}

	got, ok := stringMapField(m, "metadata")
	if !ok {
		t.Fatal("stringMapField() not ok")
	}
	if got["plan"] != "gold" {
		t.Errorf("plan = %q", got["plan"])
	}
	if _, present := got["count"]; present {
		t.Error("non-string value was kept")
	}
}

func TestStringSliceField_PreservesOrder(t *testing.T) {
	m := map[string]any{"attributes": []any{"size", float64(1), "color"}}

	got, ok := stringSliceField(m, "attributes")
	if !ok {
		t.Fatal("stringSliceField() not ok")
	}
	if len(got) != 2 || got[0] != "size" || got[1] != "color" {
		t.Errorf("stringSliceField() = %v", got)
	}
}

func TestListData(t *testing.T) {
	elems, hasMore, err := listData(map[string]any{
		"object":   "list",
		"has_more": true,
		"data":     []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}},
	})
	if err != nil {
		t.Fatalf("listData() error = %v", err)
	}
	if !hasMore || len(elems) != 2 {
		t.Errorf("listData() = %d elems, hasMore %v", len(elems), hasMore)
	}

	if _, _, err := listData(map[string]any{"object": "list"}); err == nil {
		t.Error("listData() succeeded without a data array")
	}
	if _, _, err := listData(map[string]any{"data": []any{"not-an-object"}}); err == nil {
		t.Error("listData() succeeded with a scalar element")
	}
}

func TestRequireID(t *testing.T) {
	if id, err := requireID(map[string]any{"id": "cus_1"}, "customer"); err != nil || id != "cus_1" {
		t.Errorf("requireID() = %q, %v", id, err)
	}
	if _, err := requireID(map[string]any{}, "customer"); err == nil {
		t.Error("requireID() succeeded without an id")
	}
	if _, err := requireID(map[string]any{"id": ""}, "customer"); err == nil {
		t.Error("requireID() succeeded with an empty id")
	}
}
