package framemeta

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
	"github.com/swdee/go-framemeta/query"
)

func TestNewVideoFrame(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 1920, 1080)

	if f.GetSourceID() != "cam-1" || f.GetFramerate() != "30/1" {
		t.Error("identity fields not set")
	}

	if f.GetWidth() != 1920 || f.GetHeight() != 1080 {
		t.Error("dimensions not set")
	}

	if f.GetUUID() == (uuid.UUID{}) {
		t.Error("frame should get a uuid at construction")
	}

	if !f.GetContent().IsNone() {
		t.Error("new frame should have no content")
	}

	if f.GetCreationTimestamp() == 0 {
		t.Error("creation timestamp should be set")
	}

	if f.ObjectCount() != 0 || f.MaxObjectID() != -1 {
		t.Error("new frame should be empty")
	}

	if _, ok := f.GetCodec(); ok {
		t.Error("codec should be unset")
	}
}

func TestFrameOptionalFields(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 1920, 1080)

	f.SetCodec("h264")

	if codec, ok := f.GetCodec(); !ok || codec != "h264" {
		t.Error("codec not stored")
	}

	f.ClearCodec()

	if _, ok := f.GetCodec(); ok {
		t.Error("codec not cleared")
	}

	f.SetKeyframe(true)

	if kf, ok := f.GetKeyframe(); !ok || !kf {
		t.Error("keyframe not stored")
	}

	f.SetDTS(33)
	f.SetDuration(40)

	if dts, ok := f.GetDTS(); !ok || dts != 33 {
		t.Error("dts not stored")
	}

	if d, ok := f.GetDuration(); !ok || d != 40 {
		t.Error("duration not stored")
	}

	f.ClearDTS()
	f.ClearDuration()

	if _, ok := f.GetDTS(); ok {
		t.Error("dts not cleared")
	}

	if _, ok := f.GetDuration(); ok {
		t.Error("duration not cleared")
	}
}

func TestFrameContentForms(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	f.SetContent(InternalContent([]byte{1, 2, 3}))

	data, ok := f.GetContent().Internal()

	if !ok || len(data) != 3 || data[0] != 1 {
		t.Error("internal content not stored")
	}

	f.SetContent(ExternalContent("s3", "bucket/key"))

	method, location, ok := f.GetContent().External()

	if !ok || method != "s3" || location != "bucket/key" {
		t.Error("external content not stored")
	}

	if _, ok := f.GetContent().Internal(); ok {
		t.Error("external content should not read as internal")
	}
}

func TestAddObjectErrorPolicy(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	o1 := NewObject(5, "det", "person", geometry.NewRBBox(10, 10, 4, 8))

	if err := f.AddObject(o1, IDCollisionError); err != nil {
		t.Fatal(err)
	}

	o2 := NewObject(5, "det", "car", geometry.NewRBBox(20, 20, 4, 8))

	err := f.AddObject(o2, IDCollisionError)

	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("collision error = %v, want ErrDuplicateID", err)
	}

	if f.ObjectCount() != 1 {
		t.Error("failed add must not change the object count")
	}

	if got, _ := f.GetObject(5); got.GetLabel() != "person" {
		t.Error("failed add must not replace the resident object")
	}
}

func TestAddObjectGenerateNewID(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	f.AddObject(NewObject(5, "det", "person", geometry.NewRBBox(10, 10, 4, 8)), IDCollisionError)

	o := NewObject(5, "det", "car", geometry.NewRBBox(20, 20, 4, 8))

	if err := f.AddObject(o, IDCollisionGenerateNewID); err != nil {
		t.Fatal(err)
	}

	if o.GetID() != 6 {
		t.Errorf("new id = %d, want 6", o.GetID())
	}

	if f.ObjectCount() != 2 || f.MaxObjectID() != 6 {
		t.Errorf("count %d max %d, want 2 and 6", f.ObjectCount(), f.MaxObjectID())
	}
}

func TestAddObjectOverwrite(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	old := NewObject(5, "det", "person", geometry.NewRBBox(10, 10, 4, 8))
	f.AddObject(old, IDCollisionError)
	f.AddObject(NewObject(6, "det", "car", geometry.NewRBBox(20, 20, 4, 8)), IDCollisionError)

	repl := NewObject(5, "det", "bicycle", geometry.NewRBBox(30, 30, 4, 8))

	if err := f.AddObject(repl, IDCollisionOverwrite); err != nil {
		t.Fatal(err)
	}

	if f.ObjectCount() != 2 {
		t.Errorf("count = %d, want 2", f.ObjectCount())
	}

	if got, _ := f.GetObject(5); got.GetLabel() != "bicycle" {
		t.Error("overwrite should replace the resident object")
	}

	// replaced object is detached, order slot is kept
	if old.frame != nil {
		t.Error("replaced object should be detached")
	}

	ids := f.AccessObjects(query.Idle()).IDs()

	if len(ids) != 2 || ids[0] != 5 || ids[1] != 6 {
		t.Errorf("order after overwrite = %v, want [5 6]", ids)
	}
}

func TestAddObjectValidation(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)
	other := NewVideoFrame("cam-2", "30/1", 640, 480)

	o := NewObject(1, "det", "person", geometry.NewRBBox(10, 10, 4, 8))
	f.AddObject(o, IDCollisionError)

	if err := other.AddObject(o, IDCollisionError); !errors.Is(err, ErrObjectAttached) {
		t.Errorf("attached add error = %v, want ErrObjectAttached", err)
	}

	pid := int64(42)
	orphan := NewObject(2, "det", "face", geometry.NewRBBox(10, 10, 2, 2))
	orphan.parentID = &pid

	if err := f.AddObject(orphan, IDCollisionError); !errors.Is(err, ErrNoSuchObject) {
		t.Errorf("unresolved parent error = %v, want ErrNoSuchObject", err)
	}
}

func TestDeleteObjects(t *testing.T) {

	f := GenFrame()

	deleted := f.DeleteObjects(query.ID(query.IntEQ(0)))

	if len(deleted) != 1 || deleted[0].GetID() != 0 {
		t.Fatalf("deleted %d objects, want object 0", len(deleted))
	}

	if deleted[0].frame != nil {
		t.Error("deleted object should be detached")
	}

	if f.ObjectCount() != 2 {
		t.Errorf("count = %d, want 2", f.ObjectCount())
	}

	// survivors must not keep a parent link to the deleted object
	for _, id := range []int64{1, 2} {
		o, ok := f.GetObject(id)

		if !ok {
			t.Fatalf("object %d should survive", id)
		}

		if _, hasParent := o.GetParentID(); hasParent {
			t.Errorf("object %d keeps a dangling parent", id)
		}
	}

	ids := f.AccessObjects(query.Idle()).IDs()

	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("remaining ids = %v, want [1 2]", ids)
	}
}

func TestDeleteObjectsByIDs(t *testing.T) {

	f := GenFrame()

	deleted := f.DeleteObjectsByIDs(1, 2, 99)

	if len(deleted) != 2 {
		t.Fatalf("deleted %d objects, want 2", len(deleted))
	}

	if f.ObjectCount() != 1 {
		t.Errorf("count = %d, want 1", f.ObjectCount())
	}

	if _, ok := f.GetObject(0); !ok {
		t.Error("object 0 should survive")
	}
}

func TestClearObjects(t *testing.T) {

	f := GenFrame()

	detached := f.ClearObjects()

	if len(detached) != 3 || f.ObjectCount() != 0 {
		t.Error("clear should detach every object")
	}

	// ids stay burned, fresh ids continue above the old maximum
	if f.MaxObjectID() != 2 {
		t.Errorf("max id = %d, want 2", f.MaxObjectID())
	}
}

func TestFrameAttributeScenario(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	o := NewObject(0, "det", "person", geometry.NewRBBox(10, 10, 4, 8))
	f.AddObject(o, IDCollisionError)

	values := []attribute.Value{
		attribute.Integer(1).WithConfidence(0.5),
		attribute.Integer(2).WithConfidence(0.5),
		attribute.Integer(3).WithConfidence(0.5),
		attribute.Integer(4).WithConfidence(0.5),
	}

	o.SetAttribute(attribute.New("other", "attr", values...))

	got, ok := o.GetAttribute("other", "attr")

	if !ok {
		t.Fatal("attribute should be retrievable")
	}

	if len(got.Values) != 4 {
		t.Fatalf("got %d values, want 4", len(got.Values))
	}

	for i, v := range got.Values {
		n, ok := v.AsInteger()

		if !ok || n != int64(i+1) {
			t.Errorf("value %d = %v, want %d", i, n, i+1)
		}

		c, ok := v.Confidence()

		if !ok || c != 0.5 {
			t.Errorf("value %d confidence = %v, want 0.5", i, c)
		}
	}
}

func TestHiddenAttributeScenario(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	f.SetAttribute(attribute.NewHidden("hidden", "attribute", attribute.String("x")))
	f.SetAttribute(attribute.New("visible", "attribute", attribute.String("y")))

	keys := f.FindAttributes(attribute.Filter{})

	for _, k := range keys {
		if k.Namespace == "hidden" {
			t.Error("hidden attribute must not appear in bulk listing")
		}
	}

	if _, ok := f.GetAttribute("hidden", "attribute"); !ok {
		t.Error("hidden attribute must be retrievable by exact key")
	}

	all := f.FindAttributes(attribute.Filter{IncludeHidden: true})

	if len(all) != 2 {
		t.Errorf("hidden inclusive listing has %d keys, want 2", len(all))
	}
}

func TestFrameTransformations(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	f.AddTransformation(InitialSize(1920, 1080))
	f.AddTransformation(Scale(640, 360))
	f.AddTransformation(Padding(0, 60, 0, 60))
	f.AddTransformation(ResultingSize(640, 480))

	history := f.Transformations()

	if len(history) != 4 {
		t.Fatalf("history length = %d, want 4", len(history))
	}

	if w, h, ok := history[0].AsInitialSize(); !ok || w != 1920 || h != 1080 {
		t.Error("first step should be the initial size")
	}

	if _, _, ok := history[0].AsScale(); ok {
		t.Error("initial size must not read as scale")
	}

	if w, h, ok := history[1].AsScale(); !ok || w != 640 || h != 360 {
		t.Error("second step should be the scale")
	}

	if l, top, r, b, ok := history[2].AsPadding(); !ok || l != 0 || top != 60 || r != 0 || b != 60 {
		t.Error("third step should be the padding")
	}

	if w, h, ok := history[3].AsResultingSize(); !ok || w != 640 || h != 480 {
		t.Error("fourth step should be the resulting size")
	}

	f.ClearTransformations()

	if len(f.Transformations()) != 0 {
		t.Error("history should be cleared")
	}
}

func TestSetDrawLabel(t *testing.T) {

	f := GenFrame()

	f.SetDrawLabel(query.Label(query.StrEQ("test_object_1")), OwnLabel("child"))

	o1, _ := f.GetObject(1)

	if o1.GetDrawLabel() != "child" {
		t.Errorf("draw label = %q, want child", o1.GetDrawLabel())
	}

	// untouched objects fall back to their label
	o2, _ := f.GetObject(2)

	if o2.GetDrawLabel() != "test_object_2" {
		t.Errorf("fallback draw label = %q, want test_object_2", o2.GetDrawLabel())
	}

	// a parent hint labels the parent of the matched object
	f.SetDrawLabel(query.ID(query.IntEQ(2)), ParentLabel("root"))

	o0, _ := f.GetObject(0)

	if o0.GetDrawLabel() != "root" {
		t.Errorf("parent draw label = %q, want root", o0.GetDrawLabel())
	}
}

func TestGenFrame(t *testing.T) {

	f := GenFrame()

	if f.GetWidth() != 1920 || f.GetHeight() != 1080 {
		t.Error("fixture dimensions wrong")
	}

	if f.ObjectCount() != 3 {
		t.Fatalf("fixture has %d objects, want 3", f.ObjectCount())
	}

	for _, id := range []int64{1, 2} {
		o, _ := f.GetObject(id)
		pid, ok := o.GetParentID()

		if !ok || pid != 0 {
			t.Errorf("object %d parent = %d (%v), want 0", id, pid, ok)
		}
	}

	root, _ := f.GetObject(0)

	if _, ok := root.GetTrackID(); !ok {
		t.Error("fixture root object should carry a track")
	}

	if len(root.GetChildren()) != 2 {
		t.Error("fixture root object should have two children")
	}
}
