package discovery

import "fmt"

// s5Name is the ACPI namespace object AML-encoded name for the
// power-off package, \_S5_, as it appears in a compiled DSDT/SSDT.
var s5Name = []byte{'_', 'S', '5', '_'}

// SleepTypes is the pair of SLP_TYPx values the ACPI \_S5_ package encodes
// for the two possible PM1 control-block targets (§4.L consumes these to
// write PM1a/PM1b control blocks during shutdown).
type SleepTypes struct {
	SLPTypA byte
	SLPTypB byte
}

// FindS5 scans a DSDT/SSDT AML image for the \_S5_ package and decodes its
// two SLP_TYP byte values, per S2 in §8:
//
//	... 08 '\' '_S5_' 12 0A 05 0A 07 00 00 ...
//
// '\' 0x5C marks a root-scoped name, followed by the 4-character name, a
// PackageOp (0x12), a PkgLength (a lead byte whose top two bits count the
// extra length bytes that follow it; no element-count byte is read), then each
// element either as a raw byte < 0x3E (encoded directly) or prefixed with
// a BytePrefix (0x0A) before its value.
func FindS5(aml []byte) (SleepTypes, error) {
	idx := indexOf(aml, s5Name)
	if idx < 0 {
		return SleepTypes{}, ErrNotFound
	}
	// idx points at '_S5_'; walk forward to the PackageOp, per the §8
	// layout the '\' root prefix immediately precedes the name, and the
	// PackageOp (0x12) immediately follows it.
	pos := idx + len(s5Name)
	if pos >= len(aml) || aml[pos] != 0x12 {
		return SleepTypes{}, fmt.Errorf("discovery: \\_S5_ not followed by PackageOp")
	}
	pos++ // past PackageOp

	// PkgLength: a variable-length encoding whose lead byte's top two bits
	// give the number of following length bytes (0 for lengths < 64,
	// which is all real \_S5_ packages need).
	if pos >= len(aml) {
		return SleepTypes{}, ErrShort
	}
	lead := aml[pos]
	extra := int(lead >> 6)
	pos += 1 + extra // skip PkgLength entirely; it isn't needed further

	readElement := func() (byte, error) {
		if pos >= len(aml) {
			return 0, ErrShort
		}
		b := aml[pos]
		if b == 0x0A { // BytePrefix
			pos++
			if pos >= len(aml) {
				return 0, ErrShort
			}
			v := aml[pos]
			pos++
			return v, nil
		}
		// Values 0x00 and 0x01 (and other small constants) are encoded
		// directly as a single byte with no prefix.
		pos++
		return b, nil
	}

	a, err := readElement()
	if err != nil {
		return SleepTypes{}, err
	}
	b, err := readElement()
	if err != nil {
		return SleepTypes{}, err
	}
	return SleepTypes{SLPTypA: a, SLPTypB: b}, nil
}

func indexOf(haystack, needle []byte) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
