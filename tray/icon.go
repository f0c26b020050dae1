package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

// getIcon builds the tray icon at startup: a 16x16 dashed selection
// rectangle rendered to PNG and wrapped in an ICO container, which is
// the format the Windows tray expects.
func getIcon() []byte {
	const size = 16
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	border := color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	for i := 2; i < size-2; i++ {
		// Dashed: skip every third pixel.
		if i%3 == 2 {
			continue
		}
		img.SetNRGBA(i, 2, border)
		img.SetNRGBA(i, size-3, border)
		img.SetNRGBA(2, i, border)
		img.SetNRGBA(size-3, i, border)
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil
	}
	return wrapICO(pngBuf.Bytes(), size)
}

// wrapICO prefixes a single PNG image with an ICO directory.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), count 1.
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	// ICONDIRENTRY.
	buf.WriteByte(byte(size)) // width
	buf.WriteByte(byte(size)) // height
	buf.WriteByte(0)          // colors in palette
	buf.WriteByte(0)          // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // color planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
	binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(&buf, binary.LittleEndian, uint32(6+16)) // data offset
	buf.Write(pngData)
	return buf.Bytes()
}
