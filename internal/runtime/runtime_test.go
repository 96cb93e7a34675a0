package runtime_test

import (
	"strings"
	"testing"

	"github.com/perlfront/perlfront/internal/runtime"
)

func TestNullHostRecordsCalls(t *testing.T) {
	h := runtime.NewNullHost()

	h.Require("Foo/Bar.pm")
	h.Can("Foo", "new", false)
	h.Invoke(nil, nil, runtime.ContextScalar)
	h.CompareVersion("1.0", "2.0", "Foo")
	h.SaveEndBlock(nil)
	h.SaveInitBlock(nil)
	h.SaveCheckBlock(nil)

	want := []string{"Require:", "Can:Foo::new", "Invoke", "CompareVersion:1.0:2.0:Foo", "SaveEndBlock", "SaveInitBlock", "SaveCheckBlock"}
	if len(h.Calls) != len(want) {
		t.Fatalf("Calls = %v, want %d entries", h.Calls, len(want))
	}
	for i, w := range want {
		if !strings.HasPrefix(h.Calls[i], w) {
			t.Fatalf("Calls[%d] = %q, want prefix %q", i, h.Calls[i], w)
		}
	}
}

func TestNullHostDataHandleBackingReplacement(t *testing.T) {
	h := runtime.NewNullHost()

	handle, err := h.OpenDataHandle("main", "")
	if err != nil {
		t.Fatalf("OpenDataHandle: %v", err)
	}
	if err := h.ReplaceDataBacking(handle, "hello, world\n"); err != nil {
		t.Fatalf("ReplaceDataBacking: %v", err)
	}
	if err := h.ReplaceDataBacking("not-a-handle", "x"); err == nil {
		t.Fatalf("ReplaceDataBacking with a bogus handle did not error")
	}
}

func TestNullHostPackageExistsCache(t *testing.T) {
	h := runtime.NewNullHost()
	if h.PackageExists("Foo") {
		t.Fatalf("PackageExists(Foo) = true before SetPackageExists")
	}
	h.SetPackageExists("Foo")
	if !h.PackageExists("Foo") {
		t.Fatalf("PackageExists(Foo) = false after SetPackageExists")
	}
}

func TestNullHostMintsDistinctSyntheticIDs(t *testing.T) {
	h := runtime.NewNullHost()
	a := h.NewSyntheticID()
	b := h.NewSyntheticID()
	if a == "" || b == "" {
		t.Fatalf("NewSyntheticID returned an empty id")
	}
	if a == b {
		t.Fatalf("NewSyntheticID returned the same id twice: %q", a)
	}
}

func TestNullHostCannedResults(t *testing.T) {
	h := runtime.NewNullHost()
	h.RequireResult = "1"
	found, resolved := func() (bool, interface{}) {
		h.CanFound = true
		h.CanResolved = "coderef"
		return h.Can("Foo", "bar", true)
	}()

	res, err := h.Require("Foo.pm")
	if err != nil || res != "1" {
		t.Fatalf("Require() = (%v, %v), want (1, nil)", res, err)
	}
	if !found || resolved != "coderef" {
		t.Fatalf("Can() = (%v, %v), want (true, coderef)", found, resolved)
	}
}
