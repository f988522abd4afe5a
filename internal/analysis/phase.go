package analysis

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// PhasePortraitFromRows pairs two channels of recorded sample rows.
func PhasePortraitFromRows(rows [][]float64, xIdx, yIdx int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(rows)),
	}

	for _, row := range rows {
		if xIdx >= len(row) || yIdx >= len(row) {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: row[xIdx],
			Y: row[yIdx],
		})
	}

	if len(portrait.Points) == 0 {
		return nil
	}
	return portrait
}

// Pairs returns the points as (x, y) pairs for plotting.
func (p *PhasePortrait2D) Pairs() [][2]float64 {
	if p == nil {
		return nil
	}
	out := make([][2]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = [2]float64{pt.X, pt.Y}
	}
	return out
}

// Crossings records the (x, y) channels of every row where the cross
// channel rises through threshold.
func Crossings(rows [][]float64, crossIdx int, threshold float64, xIdx, yIdx int) *PhasePortrait2D {
	section := &PhasePortrait2D{XIndex: xIdx, YIndex: yIdx}

	for i := 1; i < len(rows); i++ {
		prev, curr := rows[i-1], rows[i]
		if crossIdx >= len(prev) || crossIdx >= len(curr) || xIdx >= len(curr) || yIdx >= len(curr) {
			continue
		}
		if prev[crossIdx] < threshold && curr[crossIdx] >= threshold {
			section.Points = append(section.Points, struct{ X, Y float64 }{X: curr[xIdx], Y: curr[yIdx]})
		}
	}

	return section
}
