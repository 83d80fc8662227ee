package systray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 32

// iconData draws the tray icon: a keycap with a caret. Windows needs an ICO
// container, which may hold a PNG image directly.
func iconData() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	keycap := color.NRGBA{R: 0x2d, G: 0x6c, B: 0xdf, A: 0xff}
	mark := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	for y := 3; y < iconSize-3; y++ {
		for x := 3; x < iconSize-3; x++ {
			img.SetNRGBA(x, y, keycap)
		}
	}
	// Text caret
	for y := 9; y < iconSize-9; y++ {
		img.SetNRGBA(15, y, mark)
		img.SetNRGBA(16, y, mark)
	}
	for x := 12; x < 20; x++ {
		img.SetNRGBA(x, 9, mark)
		img.SetNRGBA(x, iconSize-10, mark)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	if runtime.GOOS != "windows" {
		return buf.Bytes(), nil
	}
	return wrapICO(buf.Bytes()), nil
}

// wrapICO wraps a single PNG image in an ICO header and directory entry
func wrapICO(pngData []byte) []byte {
	var out bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image
	binary.Write(&out, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	out.Write([]byte{iconSize, iconSize, 0, 0})
	binary.Write(&out, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(pngData)), 6 + 16})
	out.Write(pngData)
	return out.Bytes()
}
