package bus

import "testing"

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	b, err := New(make([]byte, 16), false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestBiosTooLarge(t *testing.T) {
	_, err := New(make([]byte, biosSize+1), false)
	if err == nil {
		t.Fatal("expected an error for an oversized bios image")
	}
}

func TestBiosShortImageZeroPadded(t *testing.T) {
	b := newTestBus(t)
	v, ok := b.Read8(biosStart + biosSize - 1)
	if !ok || v != 0 {
		t.Errorf("Read8 at end of short bios = (0x%02X, %v), want (0x00, true)", v, ok)
	}
}

func TestEndiannessRoundTrip(t *testing.T) {
	b := newTestBus(t)
	const addr = 0x1000

	if ok := b.Write32(addr, 0xDEADBEEF); !ok {
		t.Fatal("Write32 failed")
	}

	got, ok := b.Read32(addr)
	if !ok || got != 0xDEADBEEF {
		t.Errorf("Read32 = (0x%08X, %v), want (0xDEADBEEF, true)", got, ok)
	}

	wantBytes := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	for i, want := range wantBytes {
		v, ok := b.Read8(addr + uint32(i))
		if !ok || v != want {
			t.Errorf("byte %d = (0x%02X, %v), want (0x%02X, true)", i, v, ok, want)
		}
	}
}

func TestKSEG1Mirror(t *testing.T) {
	b := newTestBus(t)

	if ok := b.Write8(0xA0001000, 0xAB); !ok {
		t.Fatal("Write8 to KSEG1 failed")
	}

	if v, ok := b.Read8(0x00001000); !ok || v != 0xAB {
		t.Errorf("KUSEG mirror = (0x%02X, %v), want (0xAB, true)", v, ok)
	}
	if v, ok := b.Read8(0x80001000); !ok || v != 0xAB {
		t.Errorf("KSEG0 mirror = (0x%02X, %v), want (0xAB, true)", v, ok)
	}
}

func TestMisalignedAccessFails(t *testing.T) {
	b := newTestBus(t)
	if _, ok := b.Read32(0x1001); ok {
		t.Error("Read32 at an unaligned address should fail")
	}
	if _, ok := b.Read16(0x1001); ok {
		t.Error("Read16 at an odd address should fail")
	}
	if ok := b.Write32(0x1002, 0); ok {
		t.Error("Write32 at an unaligned address should fail")
	}
}

func TestKUSEGForbiddenQuarter(t *testing.T) {
	if _, ok := translate(0x40000000); ok {
		t.Error("segment index 2 should be unmapped")
	}
	if _, ok := translate(0x60000000); ok {
		t.Error("segment index 3 should be unmapped")
	}
}

func TestExpansion1ReadsAsFF(t *testing.T) {
	b := newTestBus(t)
	v, ok := b.Read8(expansion1Start)
	if !ok || v != 0xFF {
		t.Errorf("expansion1 read = (0x%02X, %v), want (0xFF, true)", v, ok)
	}
}

func TestBootProgressCallback(t *testing.T) {
	b := newTestBus(t)
	var got byte
	var called bool
	b.OnBootProgress(func(code byte) {
		called = true
		got = code
	})

	if ok := b.Write8(bootProgressReg, 0x42); !ok {
		t.Fatal("Write8 to boot-progress register failed")
	}
	if !called || got != 0x42 {
		t.Errorf("OnBootProgress callback got (%v, 0x%02X), want (true, 0x42)", called, got)
	}
}

func TestBiosIsReadOnly(t *testing.T) {
	b := newTestBus(t)
	before, _ := b.Read8(biosStart)
	b.Write8(biosStart, 0xFF)
	after, _ := b.Read8(biosStart)
	if before != after {
		t.Errorf("bios byte changed from 0x%02X to 0x%02X, want unchanged", before, after)
	}
}
