package main

import "testing"

func sampleKeyMap() *KeyMap {
	var km KeyMap
	copy(km.Name[:], "us")
	for i := range km.Regular {
		km.Regular[i] = defaultScanCode
		km.Shift[i] = defaultScanCode
		km.Control[i] = defaultScanCode
		km.AltGr[i] = defaultScanCode
	}
	km.Regular[30] = 'a'
	km.Shift[30] = 'A'
	return &km
}

func TestKeyMapRoundTrip(t *testing.T) {
	km := sampleKeyMap()
	encoded := km.Serialize()
	got, err := ParseKeyMap(encoded)
	if err != nil {
		t.Fatalf("ParseKeyMap: %v", err)
	}
	if nameString(got.Name) != "us" {
		t.Fatalf("Name = %q, want us", nameString(got.Name))
	}
	if got.Regular[30] != 'a' || got.Shift[30] != 'A' {
		t.Fatalf("scan code 30 mismatch: regular=%d shift=%d", got.Regular[30], got.Shift[30])
	}
}

func TestParseKeyMapRejectsBadMagic(t *testing.T) {
	if _, err := ParseKeyMap([]byte("notakeymap")); err != errBadKeyMap {
		t.Fatalf("ParseKeyMap(bad magic) = %v, want errBadKeyMap", err)
	}
}

func TestResolveFallsBackToRegularOnDefault(t *testing.T) {
	km := sampleKeyMap()
	km.Regular[40] = 'z'
	if got := km.Resolve(40, true, false, false); got != 'z' {
		t.Fatalf("Resolve(40, shift) = %q, want fallback to regular 'z'", got)
	}
}

func TestResolveUsesShiftTableWhenSet(t *testing.T) {
	km := sampleKeyMap()
	if got := km.Resolve(30, true, false, false); got != 'A' {
		t.Fatalf("Resolve(30, shift) = %q, want 'A'", got)
	}
}
