package gfx

// Reflow lays out a stream of equally sized 2D patches onto a surface in
// row-major order: patches fill a row of the surface left to right, then
// continue on the next row of patches.
//
//	A
//	B   ->   AB
//	C   ->   CD
//	D
//
// Line sizes are in bytes, rows in pixels.
func Reflow(dst []byte, dstLineSize, dstRows int, src []byte, srcLineSize, srcRows int) {
	rowArea := srcRows * dstLineSize
	i := 0
	for rowStart := 0; rowStart < dstRows*dstLineSize; rowStart += rowArea {
		for patchStart := rowStart; patchStart < rowStart+dstLineSize; patchStart += srcLineSize {
			for line := patchStart; line < patchStart+rowArea; line += dstLineSize {
				if i+srcLineSize > len(src) {
					return
				}
				copy(dst[line:line+srcLineSize], src[i:i+srcLineSize])
				i += srcLineSize
			}
		}
	}
}

// ReflowColMajor is Reflow with each source line placed top to bottom first,
// filling a full column of the surface before moving right.
//
//	A
//	B   ->   AC
//	C   ->   BD
//	D
func ReflowColMajor(dst []byte, dstLineSize, dstRows int, src []byte, srcLineSize int) {
	i := 0
	for col := 0; col < dstLineSize; col += srcLineSize {
		for row := 0; row < dstRows; row++ {
			if i+srcLineSize > len(src) {
				return
			}
			line := col + row*dstLineSize
			copy(dst[line:line+srcLineSize], src[i:i+srcLineSize])
			i += srcLineSize
		}
	}
}

// TilesTo2x2 arranges four tiles into a sprite.
func TilesTo2x2(tiles []byte) []byte {
	sprite := make([]byte, SpriteSize)
	Reflow(sprite, SpriteLineSize, SpritePixels, tiles, TileLineSize, TilePixels)
	return sprite
}

// TilesTo4x4 arranges sixteen tiles into a block.
func TilesTo4x4(tiles []byte) []byte {
	block := make([]byte, BlockSize)
	Reflow(block, BlockLineSize, BlockPixels, tiles, TileLineSize, TilePixels)
	return block
}

// TilesTo7x7ColMajor arranges a column-major stream of tile lines into a
// 7x7 tile canvas.
func TilesTo7x7ColMajor(tiles []byte) []byte {
	const lineSize = 7 * TileLineSize
	canvas := make([]byte, lineSize*7*TilePixels)
	ReflowColMajor(canvas, lineSize, 7*TilePixels, tiles, TileLineSize)
	return canvas
}

// BlocksToMap lays out w x h blocks into dst.
func BlocksToMap(dst, blocks []byte, w, h int) {
	Reflow(dst, w*BlockLineSize, h*BlockPixels, blocks, BlockLineSize, BlockPixels)
}
