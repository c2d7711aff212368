// Package visualization renders a network snapshot and its localization
// result in an ebiten window: topology edges, anchors, ground-truth
// positions, and the estimates produced by a strategy.
package visualization

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"netloc-sim/internal/common"
	"netloc-sim/internal/evaluation"
	"netloc-sim/internal/network"
)

const (
	nodeRadiusOnScreen = 5.0  // base node radius on screen
	matchedRingScale   = 1.8  // scale for the correctly-localized ring
	padding            = 50.0 // margin from the window edges
)

var (
	backgroundColor = color.RGBA{230, 230, 230, 255}
	edgeColor       = color.RGBA{128, 128, 128, 90}
	anchorColor     = color.RGBA{0, 0, 255, 255}
	rangeColor      = color.RGBA{0, 0, 200, 40}
	actualColor     = color.RGBA{0, 160, 0, 255}
	estimateColor   = color.RGBA{255, 0, 0, 255}
	matchedColor    = color.RGBA{160, 0, 160, 255}
)

// Viewer implements ebiten.Game for one finished localization run. The
// snapshot is static, so Update only tracks window geometry.
type Viewer struct {
	net       *network.Network
	estimated map[common.NodeID]common.Point
	report    evaluation.Report

	screenWidth  int
	screenHeight int

	scale   float64
	offsetX float64
	offsetY float64
}

// NewViewer creates a viewer for a network and the estimates produced for it.
func NewViewer(net *network.Network, estimated map[common.NodeID]common.Point, report evaluation.Report) *Viewer {
	return &Viewer{
		net:       net,
		estimated: estimated,
		report:    report,
	}
}

// Update recalculates the world-to-screen transform for the current window.
func (v *Viewer) Update() error {
	v.calculateTransform()
	return nil
}

// calculateTransform fits the square area onto the screen preserving aspect
// ratio.
func (v *Viewer) calculateTransform() {
	if v.net.AreaSize <= 0 || v.screenWidth == 0 || v.screenHeight == 0 {
		v.scale = 1.0
		v.offsetX = 0
		v.offsetY = 0
		return
	}
	scaleX := (float64(v.screenWidth) - 2*padding) / v.net.AreaSize
	scaleY := (float64(v.screenHeight) - 2*padding) / v.net.AreaSize
	v.scale = scaleX
	if scaleY < scaleX {
		v.scale = scaleY
	}
	v.offsetX = (float64(v.screenWidth) - v.net.AreaSize*v.scale) / 2
	v.offsetY = (float64(v.screenHeight) - v.net.AreaSize*v.scale) / 2
}

// worldToScreen converts area coordinates to screen coordinates.
func (v *Viewer) worldToScreen(p common.Point) (float32, float32) {
	return float32(p.X*v.scale + v.offsetX), float32(p.Y*v.scale + v.offsetY)
}

// Draw renders the snapshot: edges first, then range circles, nodes, and
// estimates, so the markers stay on top.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for pair := range v.net.Distances {
		x1, y1 := v.worldToScreen(v.net.Positions[pair.A])
		x2, y2 := v.worldToScreen(v.net.Positions[pair.B])
		vector.StrokeLine(screen, x1, y1, x2, y2, 1, edgeColor, true)
	}

	for id := range v.net.Anchors {
		x, y := v.worldToScreen(v.net.Positions[id])
		rangeRadius := float32(v.net.CommRange * v.scale)
		if rangeRadius > 0 {
			vector.StrokeCircle(screen, x, y, rangeRadius, 1, rangeColor, true)
		}
	}

	matched := make(map[common.NodeID]bool, len(v.report.Results))
	for _, res := range v.report.Results {
		matched[res.Node] = res.Matched
	}

	for id, pos := range v.net.Positions {
		x, y := v.worldToScreen(pos)
		c := actualColor
		if v.net.IsAnchor(id) {
			c = anchorColor
		}
		vector.DrawFilledCircle(screen, x, y, nodeRadiusOnScreen, c, true)
		if matched[id] {
			vector.StrokeCircle(screen, x, y, nodeRadiusOnScreen*matchedRingScale, 2, matchedColor, true)
		}
	}

	for _, pos := range v.estimated {
		x, y := v.worldToScreen(pos)
		vector.DrawFilledCircle(screen, x, y, nodeRadiusOnScreen*0.8, estimateColor, true)
	}

	v.drawDebugInfo(screen)
}

func (v *Viewer) drawDebugInfo(screen *ebiten.Image) {
	msg := fmt.Sprintf("Run: %s\n", v.net.RunID)
	msg += fmt.Sprintf("Nodes: %d, Edges: %d, Anchors: %d\n",
		len(v.net.Positions), len(v.net.Distances), len(v.net.Anchors))
	msg += fmt.Sprintf("Estimated: %d, Matched: %d (%.1f%%), Mean error: %.3f\n",
		v.report.Estimated, v.report.Matched, v.report.Accuracy, v.report.MeanError)
	msg += "Blue: anchor  Green: actual  Red: estimate  Purple ring: matched"
	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.screenWidth = outsideWidth
	v.screenHeight = outsideHeight
	return v.screenWidth, v.screenHeight
}
