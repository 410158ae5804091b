// Package mosaic approximates a raster image with semi-transparent
// rectangles.
//
// # Overview
//
// An Engine holds an immutable target image and a mutable canvas that starts
// as a uniform opaque color. Every generation it proposes a batch of random
// solid-color patches and composites each one onto the canvas only if doing
// so lowers the canvas's distance from the target in the area the patch
// covers. Over many generations the canvas converges towards the target.
//
// # Quick Start
//
//	import "github.com/gogpu/mosaic"
//
//	target := mosaic.FromImage(img)
//	e, err := mosaic.NewEngine(target, mosaic.WithSeed(1))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	for range 100 {
//	    e.Step()
//	}
//	fmt.Println(e.Distance())
//
// # Scoring
//
// Colors are compared with Distance, the Euclidean distance of the RGB
// components scaled to [0, 1]. RegionDistance and MutationDistance average it
// over a rectangle before and after a hypothetical patch is composited with
// Over. A patch is committed when the projected distance is strictly lower.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # Drivers
//
// Engine.Run drives the loop headlessly with a Presenter. The display
// package presents the canvas in a window instead.
package mosaic
