package pixel

import (
	"image"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestWorldToPixel(t *testing.T) {
	origin := r2.Point{}
	test.That(t, WorldToPixel(r2.Point{X: 0.24, Y: 0.26}, origin, 0.5), test.ShouldResemble, image.Pt(0, 1))
	test.That(t, WorldToPixel(r2.Point{X: -0.75, Y: 1.0}, origin, 0.5), test.ShouldResemble, image.Pt(-2, 2))
	test.That(t, WorldToPixel(r2.Point{X: 2, Y: 3}, r2.Point{X: 1, Y: 1}, 1), test.ShouldResemble, image.Pt(1, 2))
}

func TestWorldToPixelSBPL(t *testing.T) {
	origin := r2.Point{}
	test.That(t, WorldToPixelSBPL(r2.Point{X: 0.99, Y: 1.0}, origin, 1), test.ShouldResemble, image.Pt(0, 1))
	test.That(t, WorldToPixelSBPL(r2.Point{X: -0.01, Y: -1.5}, origin, 1), test.ShouldResemble, image.Pt(-1, -2))
	test.That(t, WorldToPixelSBPL(r2.Point{X: 1.75, Y: 1.0}, origin, 0.5), test.ShouldResemble, image.Pt(3, 2))
}

func TestPixelToWorld(t *testing.T) {
	test.That(t, PixelToWorld(image.Pt(2, -1), r2.Point{X: 1}, 0.5), test.ShouldResemble, r2.Point{X: 2, Y: -0.5})
	test.That(t, PixelToWorldCentered(image.Pt(0, 0), r2.Point{}, 0.1), test.ShouldResemble, r2.Point{X: 0.05, Y: 0.05})
}

func TestCenteredRoundTrip(t *testing.T) {
	for _, c := range []image.Point{{0, 0}, {3, -4}, {-7, 12}} {
		test.That(t, WorldToPixelSBPL(PixelToWorldCentered(c, r2.Point{}, 0.25), r2.Point{}, 0.25), test.ShouldResemble, c)
		test.That(t, WorldToPixel(PixelToWorld(c, r2.Point{}, 0.25), r2.Point{}, 0.25), test.ShouldResemble, c)
	}
}
