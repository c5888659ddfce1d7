package game

import "math"

// segmentAABBEntry returns the first segment parameter t in [0,1] where
// the line from (ox,oy)->(ex,ey) enters the box. The bool is false when
// no hit exists. Standard slab method.
func segmentAABBEntry(ox, oy, ex, ey, minX, minY, maxX, maxY float64) (float64, bool) {
	dx := ex - ox
	dy := ey - oy

	tMin := 0.0
	tMax := 1.0

	if math.Abs(dx) < 1e-12 {
		if ox < minX || ox > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - ox) * invD
		t2 := (maxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if math.Abs(dy) < 1e-12 {
		if oy < minY || oy > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - oy) * invD
		t2 := (maxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	if tMin < 0 {
		tMin = 0
	}
	return tMin, true
}

// ClampSegment shortens the segment from (ox,oy) towards (ex,ey) at the
// first solid tile it enters, returning the reachable endpoint. Used to
// stop the lamp beam at cave walls.
func ClampSegment(tm *TileMap, ox, oy, ex, ey float64) (float64, float64) {
	minCol := int(math.Floor(math.Min(ox, ex)/TileSize)) - 1
	maxCol := int(math.Floor(math.Max(ox, ex)/TileSize)) + 1
	minRow := int(math.Floor(math.Min(oy, ey)/TileSize)) - 1
	maxRow := int(math.Floor(math.Max(oy, ey)/TileSize)) + 1

	bestT := 1.0
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !tileBlocksMovement(tm.At(col, row)) {
				continue
			}
			x0 := float64(col) * TileSize
			y0 := float64(row) * TileSize
			if t, hit := segmentAABBEntry(ox, oy, ex, ey, x0, y0, x0+TileSize, y0+TileSize); hit && t < bestT {
				bestT = t
			}
		}
	}
	return ox + (ex-ox)*bestT, oy + (ey-oy)*bestT
}

// colSpanBlocked reports whether column col holds a solid tile anywhere
// in the vertical span [y0,y1].
func colSpanBlocked(tm *TileMap, col int, y0, y1 float64) bool {
	for row := int(math.Floor(y0 / TileSize)); row <= int(math.Floor(y1/TileSize)); row++ {
		if tileBlocksMovement(tm.At(col, row)) {
			return true
		}
	}
	return false
}

// rowSpanBlocked reports whether row holds a solid tile anywhere in the
// horizontal span [x0,x1].
func rowSpanBlocked(tm *TileMap, row int, x0, x1 float64) bool {
	for col := int(math.Floor(x0 / TileSize)); col <= int(math.Floor(x1/TileSize)); col++ {
		if tileBlocksMovement(tm.At(col, row)) {
			return true
		}
	}
	return false
}

// MoveAABB advances a box centred on (cx,cy) by (dx,dy), sliding along
// solid tiles. Axes resolve independently so hugging a wall while moving
// diagonally still makes progress. The sweep walks cell by cell so a
// large dash displacement cannot tunnel through a one-tile wall. Returns
// the new centre and which axes collided.
func MoveAABB(tm *TileMap, cx, cy, halfW, halfH, dx, dy float64) (nx, ny float64, hitX, hitY bool) {
	const skin = 0.01

	nx, ny = cx, cy

	if dx > 0 {
		startCol := int(math.Floor((cx + halfW) / TileSize))
		endCol := int(math.Floor((cx + dx + halfW) / TileSize))
		for col := startCol; col <= endCol; col++ {
			if colSpanBlocked(tm, col, ny-halfH, ny+halfH) {
				hitX = true
				nx = float64(col)*TileSize - halfW - skin
				break
			}
		}
		if !hitX {
			nx = cx + dx
		}
	} else if dx < 0 {
		startCol := int(math.Floor((cx - halfW) / TileSize))
		endCol := int(math.Floor((cx + dx - halfW) / TileSize))
		for col := startCol; col >= endCol; col-- {
			if colSpanBlocked(tm, col, ny-halfH, ny+halfH) {
				hitX = true
				nx = float64(col+1)*TileSize + halfW + skin
				break
			}
		}
		if !hitX {
			nx = cx + dx
		}
	}

	if dy > 0 {
		startRow := int(math.Floor((cy + halfH) / TileSize))
		endRow := int(math.Floor((cy + dy + halfH) / TileSize))
		for row := startRow; row <= endRow; row++ {
			if rowSpanBlocked(tm, row, nx-halfW, nx+halfW) {
				hitY = true
				ny = float64(row)*TileSize - halfH - skin
				break
			}
		}
		if !hitY {
			ny = cy + dy
		}
	} else if dy < 0 {
		startRow := int(math.Floor((cy - halfH) / TileSize))
		endRow := int(math.Floor((cy + dy - halfH) / TileSize))
		for row := startRow; row >= endRow; row-- {
			if rowSpanBlocked(tm, row, nx-halfW, nx+halfW) {
				hitY = true
				ny = float64(row+1)*TileSize + halfH + skin
				break
			}
		}
		if !hitY {
			ny = cy + dy
		}
	}

	return nx, ny, hitX, hitY
}
