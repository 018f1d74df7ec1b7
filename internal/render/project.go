package render

import (
	"math"

	"codeberg.org/voss/neuroscope/internal/scene"
)

// cameraDistance is how far the perspective camera sits from the
// sphere center along the view axis.
const cameraDistance = 3.0

// Project rotates a node about the vertical axis by the camera angle
// and projects it into a w x h viewport. Nodes at or behind the camera
// plane (rotated z <= -cameraDistance) are reported as not visible.
func Project(node scene.Node, camera float64, w, h int) (sx, sy int, scale float64, visible bool) {
	cos := math.Cos(camera)
	sin := math.Sin(camera)

	xRot := node.X*cos - node.Z*sin
	zRot := node.X*sin + node.Z*cos

	if zRot <= -cameraDistance {
		return 0, 0, 0, false
	}

	scale = cameraDistance / (cameraDistance + zRot)
	sx = int(float64(w)/2 + xRot*scale*float64(w)/4)
	sy = int(float64(h)/2 - node.Y*scale*float64(h)/3)

	return sx, sy, scale, true
}
