package framemeta

import (
	"errors"
	"testing"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
)

func richTestFrame() *VideoFrame {

	f := NewVideoFrame("cam-1", "25/1", 1280, 720)

	f.SetContent(ExternalContent("s3", "bucket/frame-7"))
	f.SetCodec("h264")
	f.SetKeyframe(true)
	f.SetPTS(7000)
	f.SetDTS(6990)
	f.SetDuration(40)

	f.SetAttribute(attribute.New("meta", "pipeline", attribute.String("prod")).
		WithHint("routing"))
	f.SetAttribute(attribute.NewHidden("meta", "internal", attribute.Integer(1)))

	f.AddTransformation(InitialSize(1920, 1080))
	f.AddTransformation(Scale(1280, 720))

	person := NewObject(0, "det", "person", geometry.NewRBBox(100, 100, 50, 120))
	f.AddObject(person, IDCollisionError)
	person.SetConfidence(0.87)
	person.SetTrackID(500)
	person.SetTrackBox(geometry.NewRBBoxWithAngle(101, 99, 50, 120, 10))
	person.SetDrawLabel("tracked person")

	bytesVal, _ := attribute.Bytes([]int64{2, 2}, []byte{1, 2, 3, 4})

	person.SetAttribute(attribute.New("analytics", "mixed",
		attribute.Integer(5).WithConfidence(0.5),
		attribute.Float(2.5),
		attribute.String("tag"),
		attribute.Boolean(true),
		bytesVal,
		attribute.Integers([]int64{1, 2, 3}),
		attribute.Floats([]float64{0.5, 1.5}),
		attribute.Strings([]string{"a", "b"}),
		attribute.Booleans([]bool{true, false}),
		attribute.None(),
	))

	tag := "zone"

	person.SetAttribute(attribute.New("analytics", "shapes",
		attribute.Box(geometry.NewRBBoxWithAngle(10, 10, 4, 4, 45)),
		attribute.Boxes([]geometry.RBBox{geometry.NewRBBox(1, 2, 3, 4)}),
		attribute.Point(geometry.Point{X: 5, Y: 6}),
		attribute.Points([]geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}),
		attribute.Polygon(geometry.NewPolygonalArea(
			[]geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
			[]*string{&tag, nil, nil, nil})),
	))

	face := NewObject(1, "det", "face", geometry.NewRBBox(100, 70, 20, 20))
	f.AddObject(face, IDCollisionError)
	face.SetParent(0)

	// burn an id so the watermark sits above the live maximum
	f.AddObject(NewObject(5, "det", "ghost", geometry.NewRBBox(0, 0, 1, 1)), IDCollisionError)
	f.DeleteObjectsByIDs(5)

	return f
}

func TestFrameSnapshotRoundTrip(t *testing.T) {

	f := richTestFrame()

	restored, err := FrameFromSnapshot(f.Snapshot())

	if err != nil {
		t.Fatal(err)
	}

	if restored.GetUUID() != f.GetUUID() {
		t.Error("uuid must survive the round trip")
	}

	if restored.GetCreationTimestamp() != f.GetCreationTimestamp() {
		t.Error("creation timestamp must survive the round trip")
	}

	if restored.GetSourceID() != "cam-1" || restored.GetFramerate() != "25/1" {
		t.Error("identity fields lost")
	}

	if restored.GetWidth() != 1280 || restored.GetHeight() != 720 {
		t.Error("dimensions lost")
	}

	method, location, ok := restored.GetContent().External()

	if !ok || method != "s3" || location != "bucket/frame-7" {
		t.Error("external content lost")
	}

	if codec, ok := restored.GetCodec(); !ok || codec != "h264" {
		t.Error("codec lost")
	}

	if kf, ok := restored.GetKeyframe(); !ok || !kf {
		t.Error("keyframe lost")
	}

	if restored.GetPTS() != 7000 {
		t.Error("pts lost")
	}

	if dts, ok := restored.GetDTS(); !ok || dts != 6990 {
		t.Error("dts lost")
	}

	if d, ok := restored.GetDuration(); !ok || d != 40 {
		t.Error("duration lost")
	}

	// frame attributes, including the hidden one and the hint
	meta, ok := restored.GetAttribute("meta", "pipeline")

	if !ok || meta.Hint != "routing" {
		t.Error("frame attribute hint lost")
	}

	hidden, ok := restored.GetAttribute("meta", "internal")

	if !ok || !hidden.IsHidden {
		t.Error("hidden frame attribute lost")
	}

	history := restored.Transformations()

	if len(history) != 2 {
		t.Fatalf("transformation count = %d, want 2", len(history))
	}

	if w, h, ok := history[1].AsScale(); !ok || w != 1280 || h != 720 {
		t.Error("scale step lost")
	}

	// objects, order and watermark
	if restored.ObjectCount() != 2 {
		t.Fatalf("object count = %d, want 2", restored.ObjectCount())
	}

	if restored.MaxObjectID() != 5 {
		t.Errorf("watermark = %d, want 5", restored.MaxObjectID())
	}

	person, ok := restored.GetObject(0)

	if !ok {
		t.Fatal("person lost")
	}

	if c, ok := person.GetConfidence(); !ok || c != 0.87 {
		t.Error("confidence lost")
	}

	if id, ok := person.GetTrackID(); !ok || id != 500 {
		t.Error("track id lost")
	}

	tb, ok := person.GetTrackBox()

	if !ok {
		t.Fatal("track box lost")
	}

	if angle, ok := tb.Angle(); !ok || angle != 10 {
		t.Error("track box angle lost")
	}

	if person.GetDrawLabel() != "tracked person" {
		t.Error("draw label lost")
	}

	face, _ := restored.GetObject(1)

	if p, ok := face.GetParent(); !ok || p.GetID() != 0 {
		t.Error("parent link lost")
	}

	mixed, ok := person.GetAttribute("analytics", "mixed")

	if !ok || len(mixed.Values) != 10 {
		t.Fatalf("mixed attribute has %d values, want 10", len(mixed.Values))
	}

	if n, _ := mixed.Values[0].AsInteger(); n != 5 {
		t.Error("integer value lost")
	}

	if c, ok := mixed.Values[0].Confidence(); !ok || c != 0.5 {
		t.Error("value confidence lost")
	}

	dims, data, ok := mixed.Values[4].AsBytes()

	if !ok || len(dims) != 2 || dims[0] != 2 || len(data) != 4 {
		t.Error("bytes value lost")
	}

	if !mixed.Values[9].IsNone() {
		t.Error("none value lost")
	}

	shapes, _ := person.GetAttribute("analytics", "shapes")

	box, ok := shapes.Values[0].AsBox()

	if !ok {
		t.Fatal("box value lost")
	}

	if angle, ok := box.Angle(); !ok || angle != 45 {
		t.Error("box value angle lost")
	}

	poly, ok := shapes.Values[4].AsPolygon()

	if !ok || poly.VertexCount() != 4 {
		t.Fatal("polygon value lost")
	}

	if tag, ok := poly.TagAt(0); !ok || tag != "zone" {
		t.Error("polygon tag lost")
	}

	if _, ok := poly.TagAt(1); ok {
		t.Error("untagged edge gained a tag")
	}

	// the restored graph is live, mutation keeps working
	if err := person.SetParent(1); !errors.Is(err, ErrParentCycle) {
		t.Error("restored frame should still enforce the cycle rule")
	}
}

func TestSnapshotStripsOpaqueValues(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	f.SetAttribute(attribute.New("cache", "handle", attribute.Opaque(struct{ x int }{1})))
	f.SetAttribute(attribute.New("cache", "mixed",
		attribute.Opaque("h"), attribute.Integer(3)))

	s := f.Snapshot()

	if len(s.Attributes) != 1 {
		t.Fatalf("snapshot carries %d attributes, want 1", len(s.Attributes))
	}

	// the all opaque attribute is dropped, the mixed one keeps its rest
	if s.Attributes[0].Name != "mixed" || len(s.Attributes[0].Values) != 1 {
		t.Error("opaque values should be stripped, not the whole mixed attribute")
	}

	restored, err := FrameFromSnapshot(s)

	if err != nil {
		t.Fatal(err)
	}

	if _, ok := restored.GetAttribute("cache", "handle"); ok {
		t.Error("opaque only attribute must not survive")
	}

	mixed, ok := restored.GetAttribute("cache", "mixed")

	if !ok || len(mixed.Values) != 1 {
		t.Fatal("mixed attribute should survive with one value")
	}

	if n, _ := mixed.Values[0].AsInteger(); n != 3 {
		t.Error("serializable value lost")
	}
}

func TestFrameFromSnapshotRejectsBadInput(t *testing.T) {

	good := GenFrame().Snapshot()

	bad := *good
	bad.UUID = "not-a-uuid"

	if _, err := FrameFromSnapshot(&bad); err == nil {
		t.Error("malformed uuid should be rejected")
	}

	bad = *good
	bad.Objects = append([]ObjectSnapshot{}, good.Objects...)
	bad.Objects[1].ID = 0

	if _, err := FrameFromSnapshot(&bad); !errors.Is(err, ErrDuplicateID) {
		t.Error("duplicate object ids should be rejected")
	}

	bad = *good
	bad.Objects = append([]ObjectSnapshot{}, good.Objects...)
	pid := int64(77)
	bad.Objects[1].ParentID = &pid

	if _, err := FrameFromSnapshot(&bad); !errors.Is(err, ErrNoSuchObject) {
		t.Error("unresolved parents should be rejected")
	}

	bad = *good
	bad.Objects = append([]ObjectSnapshot{}, good.Objects...)
	p1, p2 := int64(2), int64(1)
	bad.Objects[1].ParentID = &p1
	bad.Objects[2].ParentID = &p2

	if _, err := FrameFromSnapshot(&bad); !errors.Is(err, ErrParentCycle) {
		t.Error("parent cycles should be rejected")
	}

	bad = *good
	bad.Content = ContentSnapshot{Kind: "carrier-pigeon"}

	if _, err := FrameFromSnapshot(&bad); !errors.Is(err, ErrUnknownVariant) {
		t.Error("unknown content kinds should be rejected")
	}

	bad = *good
	bad.Attributes = []AttributeSnapshot{{
		Namespace: "x", Name: "y",
		Values: []ValueSnapshot{{Kind: "quaternion"}},
	}}

	if _, err := FrameFromSnapshot(&bad); !errors.Is(err, ErrUnknownVariant) {
		t.Error("unknown value kinds should be rejected")
	}
}

func TestDropUnknownValues(t *testing.T) {

	f := NewVideoFrame("cam-1", "30/1", 640, 480)

	f.SetAttribute(attribute.New("meta", "mixed",
		attribute.Integer(3), attribute.String("x")))
	f.SetAttribute(attribute.New("meta", "doomed", attribute.Float(1.5)))
	f.SetAttribute(attribute.New("meta", "empty"))

	o := NewObject(0, "det", "person", geometry.NewRBBox(10, 10, 4, 4))
	f.AddObject(o, IDCollisionError)
	o.SetAttribute(attribute.New("det", "score", attribute.Float(0.9)))

	s := f.Snapshot()

	// rewrite some kinds as if a newer schema had written them
	s.Attributes[0].Values[1].Kind = "quaternion"
	s.Attributes[1].Values[0].Kind = "tensor"
	s.Objects[0].Attributes[0].Values[0].Kind = "tensor"

	if _, err := FrameFromSnapshot(s); err == nil {
		t.Fatal("strict restore should reject the rewritten kinds")
	}

	s.DropUnknownValues()

	restored, err := FrameFromSnapshot(s)

	if err != nil {
		t.Fatal(err)
	}

	mixed, ok := restored.GetAttribute("meta", "mixed")

	if !ok || len(mixed.Values) != 1 {
		t.Fatal("mixed attribute should keep its recognized value")
	}

	if n, _ := mixed.Values[0].AsInteger(); n != 3 {
		t.Error("recognized value lost")
	}

	if _, ok := restored.GetAttribute("meta", "doomed"); ok {
		t.Error("attribute emptied by the drop should go away")
	}

	// an attribute that never had values is not emptied by the drop
	if _, ok := restored.GetAttribute("meta", "empty"); !ok {
		t.Error("empty attribute should survive")
	}

	obj, _ := restored.GetObject(0)

	if _, ok := obj.GetAttribute("det", "score"); ok {
		t.Error("object attribute emptied by the drop should go away")
	}
}

func TestUpdateSnapshotRoundTrip(t *testing.T) {

	pid := int64(0)

	u := NewVideoFrameUpdate()
	u.SetFrameAttributePolicy(KeepOwn)
	u.SetObjectAttributePolicy(ErrorOnCollision)
	u.SetObjectPolicy(ReplaceSameLabelObjects)
	u.AddFrameAttribute(attribute.New("meta", "stage", attribute.String("new")))
	u.AddObjectAttribute(3, attribute.New("classifier", "age", attribute.Float(40)))
	u.AddObject(NewObject(9, "det", "person", geometry.NewRBBox(5, 5, 2, 2)), &pid)

	restored, err := UpdateFromSnapshot(u.Snapshot())

	if err != nil {
		t.Fatal(err)
	}

	if restored.frameAttributePolicy != KeepOwn ||
		restored.objectAttributePolicy != ErrorOnCollision ||
		restored.objectPolicy != ReplaceSameLabelObjects {
		t.Error("policies lost")
	}

	if len(restored.FrameAttributes()) != 1 {
		t.Error("frame attributes lost")
	}

	if len(restored.objectAttributes) != 1 || restored.objectAttributes[0].objectID != 3 {
		t.Error("object attributes lost")
	}

	if len(restored.objects) != 1 {
		t.Fatal("objects lost")
	}

	if restored.objects[0].parentID == nil || *restored.objects[0].parentID != 0 {
		t.Error("requested parent lost")
	}

	// the reconstructed update applies the same way as the original
	f := NewVideoFrame("cam-1", "30/1", 640, 480)
	f.AddObject(NewObject(0, "det", "scene", geometry.NewRBBox(320, 240, 640, 480)), IDCollisionError)
	f.AddObject(NewObject(3, "det", "person", geometry.NewRBBox(1, 1, 2, 2)), IDCollisionError)

	if err := f.Update(restored); err != nil {
		t.Fatal(err)
	}

	if f.ObjectCount() != 2 {
		t.Error("replace policy should have swapped the resident")
	}

	repl, _ := f.GetObject(4)

	if repl == nil || repl.GetLabel() != "person" {
		t.Fatal("replacement object missing")
	}

	if p, ok := repl.GetParent(); !ok || p.GetID() != 0 {
		t.Error("replacement should be linked to the requested parent")
	}
}

func TestUpdateFromSnapshotRejectsUnknownPolicy(t *testing.T) {

	s := &VideoFrameUpdateSnapshot{ObjectPolicy: "merge_everything"}

	if _, err := UpdateFromSnapshot(s); !errors.Is(err, ErrUnknownVariant) {
		t.Error("unknown policies should be rejected")
	}
}

func TestUserDataSnapshotRoundTrip(t *testing.T) {

	u := NewUserData("telemetry")
	u.SetAttribute(attribute.New("stats", "fps", attribute.Float(29.97)))
	u.SetAttribute(attribute.NewHidden("stats", "internal", attribute.Integer(1)))

	restored, err := UserDataFromSnapshot(u.Snapshot())

	if err != nil {
		t.Fatal(err)
	}

	if restored.GetSourceID() != "telemetry" || restored.AttributeCount() != 2 {
		t.Error("user data lost")
	}

	hidden, ok := restored.GetAttribute("stats", "internal")

	if !ok || !hidden.IsHidden {
		t.Error("hidden attribute lost")
	}
}

func TestBatchSnapshotRoundTrip(t *testing.T) {

	b := NewVideoFrameBatch()
	b.Add(30, GenFrame())
	b.Add(10, GenFrame())

	restored, err := BatchFromSnapshot(b.Snapshot())

	if err != nil {
		t.Fatal(err)
	}

	ids := restored.IDs()

	if len(ids) != 2 || ids[0] != 30 || ids[1] != 10 {
		t.Errorf("batch order = %v, want [30 10]", ids)
	}

	f, ok := restored.Get(30)

	if !ok || f.ObjectCount() != 3 {
		t.Error("batch frame lost")
	}
}
