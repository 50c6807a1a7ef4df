package framemeta

import (
	"testing"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
	"github.com/swdee/go-framemeta/query"
)

func TestBatchMembership(t *testing.T) {

	b := NewVideoFrameBatch()

	b.Add(10, NewVideoFrame("cam-1", "30/1", 640, 480))
	b.Add(20, NewVideoFrame("cam-2", "30/1", 640, 480))
	b.Add(30, NewVideoFrame("cam-3", "30/1", 640, 480))

	if b.Len() != 3 {
		t.Fatalf("batch length = %d, want 3", b.Len())
	}

	if got := b.IDs(); len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("batch ids = %v, want [10 20 30]", got)
	}

	// replacing a slot keeps its position in the order
	b.Add(20, NewVideoFrame("cam-2b", "30/1", 640, 480))

	if b.Len() != 3 {
		t.Error("replacement must not grow the batch")
	}

	if got := b.IDs(); got[1] != 20 {
		t.Errorf("batch ids after replace = %v, want 20 second", got)
	}

	f, ok := b.Get(20)

	if !ok || f.GetSourceID() != "cam-2b" {
		t.Error("replacement frame not stored")
	}

	if !b.Del(20) {
		t.Error("delete should report the removed frame")
	}

	if b.Del(20) {
		t.Error("second delete should report a miss")
	}

	if got := b.IDs(); len(got) != 2 || got[0] != 10 || got[1] != 30 {
		t.Errorf("batch ids after delete = %v, want [10 30]", got)
	}

	frames := b.Frames()

	if len(frames) != 2 || frames[0].GetSourceID() != "cam-1" {
		t.Error("frames should follow batch order")
	}
}

func TestBatchAccessObjects(t *testing.T) {

	b := NewVideoFrameBatch()

	b.Add(1, GenFrame())
	b.Add(2, GenFrame())

	empty := NewVideoFrame("cam-e", "30/1", 640, 480)
	b.Add(3, empty)

	views := b.AccessObjects(query.ParentDefined())

	if len(views) != 3 {
		t.Fatalf("view map size = %d, want 3", len(views))
	}

	for _, id := range []int64{1, 2} {
		if views[id].Len() != 2 {
			t.Errorf("frame %d matched %d objects, want 2", id, views[id].Len())
		}
	}

	if views[3].Len() != 0 {
		t.Error("empty frame should yield an empty view")
	}
}

func TestBatchPartitionObjects(t *testing.T) {

	b := NewVideoFrameBatch()

	b.Add(1, GenFrame())
	b.Add(2, GenFrame())

	matched, rest := b.PartitionObjects(query.TrackDefined())

	for _, id := range []int64{1, 2} {
		if matched[id].Len() != 1 || rest[id].Len() != 2 {
			t.Errorf("frame %d partition = %d/%d, want 1/2",
				id, matched[id].Len(), rest[id].Len())
		}

		if matched[id].At(0).GetID() != 0 {
			t.Errorf("frame %d tracked object should match", id)
		}
	}
}

func TestUserData(t *testing.T) {

	u := NewUserData("telemetry")

	if u.GetSourceID() != "telemetry" {
		t.Error("source id not set")
	}

	u.SetAttribute(attribute.New("stats", "fps", attribute.Float(29.97)))
	u.SetAttribute(attribute.NewHidden("stats", "internal", attribute.Integer(1)))

	if u.AttributeCount() != 2 {
		t.Fatalf("count = %d, want 2", u.AttributeCount())
	}

	if keys := u.FindAttributes(attribute.Filter{}); len(keys) != 1 {
		t.Error("hidden attribute should be excluded from the listing")
	}

	if _, ok := u.GetAttribute("stats", "internal"); !ok {
		t.Error("hidden attribute should be retrievable by key")
	}

	if _, ok := u.DeleteAttribute("stats", "fps"); !ok {
		t.Error("delete should report the removed attribute")
	}

	u.ClearAttributes()

	if u.AttributeCount() != 0 {
		t.Error("clear should drop every attribute")
	}

	u.SetSourceID("renamed")

	if u.GetSourceID() != "renamed" {
		t.Error("source id not updated")
	}
}

func TestEndOfStream(t *testing.T) {

	e := NewEndOfStream("cam-1")

	if e.GetSourceID() != "cam-1" {
		t.Error("source id not set")
	}
}

func TestObjectsMatchingAcrossFrames(t *testing.T) {

	// objects attached to different frames evaluate independently
	b := NewVideoFrameBatch()

	f1 := NewVideoFrame("cam-1", "30/1", 640, 480)
	f1.AddObject(NewObject(0, "det", "person", geometry.NewRBBox(10, 10, 4, 8)), IDCollisionError)

	f2 := NewVideoFrame("cam-2", "30/1", 640, 480)
	f2.AddObject(NewObject(0, "det", "car", geometry.NewRBBox(10, 10, 8, 4)), IDCollisionError)

	b.Add(1, f1)
	b.Add(2, f2)

	views := b.AccessObjects(query.Label(query.StrEQ("car")))

	if views[1].Len() != 0 || views[2].Len() != 1 {
		t.Error("label match should only hit the second frame")
	}
}
