package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelOffset places the text baseline up and to the right of the vertex.
var labelOffset = image.Pt(2, -2)

// drawLabels writes each projected vertex's label next to it using the
// 7x13 bitmap face. Text falling outside the buffer is clipped.
func drawLabels(z *ZBuffer, mesh LabeledMesh, proj []image.Point, ok []bool, c color.RGBA) {
	d := &font.Drawer{
		Dst:  z,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	bounds := z.Bounds()

	for i, p := range proj {
		if !ok[i] || !p.In(bounds) {
			continue
		}
		label := mesh.VertexLabel(i)
		if label == "" {
			continue
		}
		at := p.Add(labelOffset)
		d.Dot = fixed.P(at.X, at.Y)
		d.DrawString(label)
	}
}
