package framemeta

import (
	"fmt"

	"github.com/swdee/go-framemeta/geometry"
)

// GenFrame builds a small populated frame for tests and examples: a
// 1920x1080 frame holding three objects with ids 0, 1 and 2 where object 0
// is the parent of the other two. Object 0 also carries a track.
func GenFrame() *VideoFrame {

	f := NewVideoFrame("test", "30/1", 1920, 1080)
	f.AddTransformation(InitialSize(1920, 1080))

	for i := int64(0); i < 3; i++ {
		o := NewObject(i, "test", fmt.Sprintf("test_object_%d", i),
			geometry.NewRBBox(float64(i*100)+50, float64(i*100)+50, 50, 70))
		o.SetConfidence(0.9)

		if i == 0 {
			o.SetTrackID(100)
			o.SetTrackBox(geometry.NewRBBox(50, 50, 50, 70))
		}

		if err := f.AddObject(o, IDCollisionError); err != nil {
			panic(err)
		}
	}

	for _, id := range []int64{1, 2} {
		o, _ := f.GetObject(id)

		if err := o.SetParent(0); err != nil {
			panic(err)
		}
	}

	return f
}
