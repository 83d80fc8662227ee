package systray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
)

func TestWrapICO(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4}
	ico := wrapICO(data)

	if len(ico) != 22+len(data) {
		t.Fatalf("len = %d", len(ico))
	}
	if binary.LittleEndian.Uint16(ico[2:4]) != 1 || binary.LittleEndian.Uint16(ico[4:6]) != 1 {
		t.Fatalf("bad ICONDIR header % x", ico[:6])
	}
	if binary.LittleEndian.Uint32(ico[14:18]) != uint32(len(data)) {
		t.Fatalf("bad image size")
	}
	if binary.LittleEndian.Uint32(ico[18:22]) != 22 {
		t.Fatalf("bad image offset")
	}
	if !bytes.Equal(ico[22:], data) {
		t.Fatalf("image bytes not copied")
	}
}

func TestIconData(t *testing.T) {
	t.Parallel()

	data, err := iconData()
	if err != nil {
		t.Fatalf("iconData: %v", err)
	}
	// Skip the ICO wrapper on Windows
	if bytes.HasPrefix(data, []byte{0, 0, 1, 0}) {
		data = data[22:]
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Fatalf("bounds = %v", b)
	}
}
