package framemeta

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
)

// PointSnapshot is the serializable form of a polygon vertex
type PointSnapshot struct {
	X float64 `cbor:"x" json:"x"`
	Y float64 `cbor:"y" json:"y"`
}

// RBBoxSnapshot is the serializable form of a rotated bounding box. A nil
// Angle marks an axis aligned box.
type RBBoxSnapshot struct {
	XCenter float64  `cbor:"xc" json:"xc"`
	YCenter float64  `cbor:"yc" json:"yc"`
	Width   float64  `cbor:"width" json:"width"`
	Height  float64  `cbor:"height" json:"height"`
	Angle   *float64 `cbor:"angle,omitempty" json:"angle,omitempty"`
}

// PolygonSnapshot is the serializable form of a polygonal area
type PolygonSnapshot struct {
	Vertices []PointSnapshot `cbor:"vertices" json:"vertices"`
	Tags     []*string       `cbor:"tags,omitempty" json:"tags,omitempty"`
}

func newBoxSnapshot(b geometry.RBBox) RBBoxSnapshot {

	s := RBBoxSnapshot{
		XCenter: b.XCenter(),
		YCenter: b.YCenter(),
		Width:   b.Width(),
		Height:  b.Height(),
	}

	if angle, ok := b.Angle(); ok {
		s.Angle = &angle
	}

	return s
}

func boxFromSnapshot(s RBBoxSnapshot) geometry.RBBox {

	if s.Angle != nil {
		return geometry.NewRBBoxWithAngle(s.XCenter, s.YCenter, s.Width,
			s.Height, *s.Angle)
	}

	return geometry.NewRBBox(s.XCenter, s.YCenter, s.Width, s.Height)
}

func newPointSnapshots(pts []geometry.Point) []PointSnapshot {

	out := make([]PointSnapshot, len(pts))

	for i, p := range pts {
		out[i] = PointSnapshot{X: p.X, Y: p.Y}
	}

	return out
}

func pointsFromSnapshots(snaps []PointSnapshot) []geometry.Point {

	out := make([]geometry.Point, len(snaps))

	for i, s := range snaps {
		out[i] = geometry.Point{X: s.X, Y: s.Y}
	}

	return out
}

func newPolygonSnapshot(p geometry.PolygonalArea) PolygonSnapshot {

	return PolygonSnapshot{
		Vertices: newPointSnapshots(p.Vertices()),
		Tags:     p.Tags(),
	}
}

func polygonFromSnapshot(s PolygonSnapshot) geometry.PolygonalArea {
	return geometry.NewPolygonalArea(pointsFromSnapshots(s.Vertices), s.Tags)
}

// ValueSnapshot is the serializable form of an attribute value. Kind selects
// the payload member, everything else is omitted. Opaque values are process
// local and never appear in snapshots.
type ValueSnapshot struct {
	Kind       string            `cbor:"kind" json:"kind"`
	Confidence *float64          `cbor:"confidence,omitempty" json:"confidence,omitempty"`
	Int        *int64            `cbor:"int,omitempty" json:"int,omitempty"`
	Float      *float64          `cbor:"float,omitempty" json:"float,omitempty"`
	Str        *string           `cbor:"str,omitempty" json:"str,omitempty"`
	Bool       *bool             `cbor:"bool,omitempty" json:"bool,omitempty"`
	Dims       []int64           `cbor:"dims,omitempty" json:"dims,omitempty"`
	Data       []byte            `cbor:"data,omitempty" json:"data,omitempty"`
	Ints       []int64           `cbor:"ints,omitempty" json:"ints,omitempty"`
	Floats     []float64         `cbor:"floats,omitempty" json:"floats,omitempty"`
	Strs       []string          `cbor:"strs,omitempty" json:"strs,omitempty"`
	Bools      []bool            `cbor:"bools,omitempty" json:"bools,omitempty"`
	Box        *RBBoxSnapshot    `cbor:"box,omitempty" json:"box,omitempty"`
	Boxes      []RBBoxSnapshot   `cbor:"boxes,omitempty" json:"boxes,omitempty"`
	Point      *PointSnapshot    `cbor:"point,omitempty" json:"point,omitempty"`
	Points     []PointSnapshot   `cbor:"points,omitempty" json:"points,omitempty"`
	Polygon    *PolygonSnapshot  `cbor:"polygon,omitempty" json:"polygon,omitempty"`
	Polygons   []PolygonSnapshot `cbor:"polygons,omitempty" json:"polygons,omitempty"`
}

// newValueSnapshot reports false for values that cannot be serialized
func newValueSnapshot(v attribute.Value) (ValueSnapshot, bool) {

	s := ValueSnapshot{Kind: v.Kind().String()}

	if c, ok := v.Confidence(); ok {
		s.Confidence = &c
	}

	switch v.Kind() {

	case attribute.KindNone:

	case attribute.KindInteger:
		n, _ := v.AsInteger()
		s.Int = &n

	case attribute.KindFloat:
		f, _ := v.AsFloat()
		s.Float = &f

	case attribute.KindString:
		str, _ := v.AsString()
		s.Str = &str

	case attribute.KindBoolean:
		b, _ := v.AsBoolean()
		s.Bool = &b

	case attribute.KindBytes:
		dims, data, _ := v.AsBytes()
		s.Dims = dims
		s.Data = data

	case attribute.KindIntegerList:
		s.Ints, _ = v.AsIntegers()

	case attribute.KindFloatList:
		s.Floats, _ = v.AsFloats()

	case attribute.KindStringList:
		s.Strs, _ = v.AsStrings()

	case attribute.KindBooleanList:
		s.Bools, _ = v.AsBooleans()

	case attribute.KindBox:
		b, _ := v.AsBox()
		box := newBoxSnapshot(b)
		s.Box = &box

	case attribute.KindBoxList:
		boxes, _ := v.AsBoxes()
		s.Boxes = make([]RBBoxSnapshot, len(boxes))

		for i, b := range boxes {
			s.Boxes[i] = newBoxSnapshot(b)
		}

	case attribute.KindPoint:
		p, _ := v.AsPoint()
		pt := PointSnapshot{X: p.X, Y: p.Y}
		s.Point = &pt

	case attribute.KindPointList:
		pts, _ := v.AsPoints()
		s.Points = newPointSnapshots(pts)

	case attribute.KindPolygon:
		p, _ := v.AsPolygon()
		poly := newPolygonSnapshot(p)
		s.Polygon = &poly

	case attribute.KindPolygonList:
		polys, _ := v.AsPolygons()
		s.Polygons = make([]PolygonSnapshot, len(polys))

		for i, p := range polys {
			s.Polygons[i] = newPolygonSnapshot(p)
		}

	case attribute.KindOpaque:
		return ValueSnapshot{}, false
	}

	return s, true
}

func valueFromSnapshot(s ValueSnapshot) (attribute.Value, error) {

	var v attribute.Value

	switch s.Kind {

	case "none":
		v = attribute.None()

	case "integer":
		if s.Int == nil {
			return v, fmt.Errorf("integer value without payload")
		}

		v = attribute.Integer(*s.Int)

	case "float":
		if s.Float == nil {
			return v, fmt.Errorf("float value without payload")
		}

		v = attribute.Float(*s.Float)

	case "string":
		if s.Str == nil {
			return v, fmt.Errorf("string value without payload")
		}

		v = attribute.String(*s.Str)

	case "boolean":
		if s.Bool == nil {
			return v, fmt.Errorf("boolean value without payload")
		}

		v = attribute.Boolean(*s.Bool)

	case "bytes":
		b, err := attribute.Bytes(s.Dims, s.Data)

		if err != nil {
			return v, err
		}

		v = b

	case "integer_list":
		v = attribute.Integers(s.Ints)

	case "float_list":
		v = attribute.Floats(s.Floats)

	case "string_list":
		v = attribute.Strings(s.Strs)

	case "boolean_list":
		v = attribute.Booleans(s.Bools)

	case "box":
		if s.Box == nil {
			return v, fmt.Errorf("box value without payload")
		}

		v = attribute.Box(boxFromSnapshot(*s.Box))

	case "box_list":
		boxes := make([]geometry.RBBox, len(s.Boxes))

		for i, b := range s.Boxes {
			boxes[i] = boxFromSnapshot(b)
		}

		v = attribute.Boxes(boxes)

	case "point":
		if s.Point == nil {
			return v, fmt.Errorf("point value without payload")
		}

		v = attribute.Point(geometry.Point{X: s.Point.X, Y: s.Point.Y})

	case "point_list":
		v = attribute.Points(pointsFromSnapshots(s.Points))

	case "polygon":
		if s.Polygon == nil {
			return v, fmt.Errorf("polygon value without payload")
		}

		v = attribute.Polygon(polygonFromSnapshot(*s.Polygon))

	case "polygon_list":
		polys := make([]geometry.PolygonalArea, len(s.Polygons))

		for i, p := range s.Polygons {
			polys[i] = polygonFromSnapshot(p)
		}

		v = attribute.Polygons(polys)

	default:
		return v, fmt.Errorf("%w: value kind %q", ErrUnknownVariant, s.Kind)
	}

	if s.Confidence != nil {
		v = v.WithConfidence(*s.Confidence)
	}

	return v, nil
}

// restorableValueKinds holds every kind name valueFromSnapshot accepts.
// Every kind up to the polygon list is restorable, opaque is not.
var restorableValueKinds = make(map[string]bool)

func init() {

	for k := attribute.KindNone; k <= attribute.KindPolygonList; k++ {
		restorableValueKinds[k.String()] = true
	}
}

// dropUnknownAttributeValues filters out values with unrecognized kinds in
// place. An attribute emptied by the filtering is dropped with them, an
// attribute that never had values is kept.
func dropUnknownAttributeValues(attrs []AttributeSnapshot) []AttributeSnapshot {

	out := attrs[:0]

	for _, a := range attrs {
		kept := a.Values[:0]

		for _, v := range a.Values {
			if restorableValueKinds[v.Kind] {
				kept = append(kept, v)
			}
		}

		if len(a.Values) > 0 && len(kept) == 0 {
			continue
		}

		a.Values = kept
		out = append(out, a)
	}

	return out
}

// AttributeSnapshot is the serializable form of an attribute
type AttributeSnapshot struct {
	Namespace string          `cbor:"namespace" json:"namespace"`
	Name      string          `cbor:"name" json:"name"`
	Values    []ValueSnapshot `cbor:"values,omitempty" json:"values,omitempty"`
	Hint      string          `cbor:"hint,omitempty" json:"hint,omitempty"`
	Hidden    bool            `cbor:"hidden,omitempty" json:"hidden,omitempty"`
}

// newAttributeSnapshot reports false when every value of the attribute is
// opaque, such an attribute is dropped from the snapshot entirely
func newAttributeSnapshot(a attribute.Attribute) (AttributeSnapshot, bool) {

	s := AttributeSnapshot{
		Namespace: a.Namespace,
		Name:      a.Name,
		Hint:      a.Hint,
		Hidden:    a.IsHidden,
	}

	for _, v := range a.Values {
		if vs, ok := newValueSnapshot(v); ok {
			s.Values = append(s.Values, vs)
		}
	}

	if len(a.Values) > 0 && len(s.Values) == 0 {
		return AttributeSnapshot{}, false
	}

	return s, true
}

func attributeFromSnapshot(s AttributeSnapshot) (attribute.Attribute, error) {

	values := make([]attribute.Value, len(s.Values))

	for i, vs := range s.Values {
		v, err := valueFromSnapshot(vs)

		if err != nil {
			return attribute.Attribute{}, fmt.Errorf("attribute %s.%s: %w",
				s.Namespace, s.Name, err)
		}

		values[i] = v
	}

	a := attribute.New(s.Namespace, s.Name, values...)
	a.Hint = s.Hint
	a.IsHidden = s.Hidden

	return a, nil
}

func storeSnapshot(st *attribute.Store) []AttributeSnapshot {

	var out []AttributeSnapshot

	for _, k := range st.AllKeys() {
		a, _ := st.Get(k.Namespace, k.Name)

		if s, ok := newAttributeSnapshot(a); ok {
			out = append(out, s)
		}
	}

	return out
}

func fillStore(st *attribute.Store, snaps []AttributeSnapshot) error {

	for _, s := range snaps {
		a, err := attributeFromSnapshot(s)

		if err != nil {
			return err
		}

		st.Set(a)
	}

	return nil
}

// ContentSnapshot is the serializable form of frame content
type ContentSnapshot struct {
	Kind     string `cbor:"kind" json:"kind"`
	Data     []byte `cbor:"data,omitempty" json:"data,omitempty"`
	Method   string `cbor:"method,omitempty" json:"method,omitempty"`
	Location string `cbor:"location,omitempty" json:"location,omitempty"`
}

func newContentSnapshot(c VideoFrameContent) ContentSnapshot {

	if data, ok := c.Internal(); ok {
		return ContentSnapshot{Kind: "internal", Data: data}
	}

	if method, location, ok := c.External(); ok {
		return ContentSnapshot{Kind: "external", Method: method, Location: location}
	}

	return ContentSnapshot{Kind: "none"}
}

func contentFromSnapshot(s ContentSnapshot) (VideoFrameContent, error) {

	switch s.Kind {
	case "none", "":
		return NoContent(), nil
	case "internal":
		return InternalContent(s.Data), nil
	case "external":
		return ExternalContent(s.Method, s.Location), nil
	}

	return VideoFrameContent{}, fmt.Errorf("%w: content kind %q",
		ErrUnknownVariant, s.Kind)
}

// TransformationSnapshot is the serializable form of one transformation
// step. Kind selects which of the size or padding fields are meaningful.
type TransformationSnapshot struct {
	Kind   string `cbor:"kind" json:"kind"`
	Width  int64  `cbor:"width,omitempty" json:"width,omitempty"`
	Height int64  `cbor:"height,omitempty" json:"height,omitempty"`
	Left   int64  `cbor:"left,omitempty" json:"left,omitempty"`
	Top    int64  `cbor:"top,omitempty" json:"top,omitempty"`
	Right  int64  `cbor:"right,omitempty" json:"right,omitempty"`
	Bottom int64  `cbor:"bottom,omitempty" json:"bottom,omitempty"`
}

func newTransformationSnapshot(t VideoFrameTransformation) TransformationSnapshot {

	if w, h, ok := t.AsInitialSize(); ok {
		return TransformationSnapshot{Kind: "initial_size", Width: w, Height: h}
	}

	if w, h, ok := t.AsResultingSize(); ok {
		return TransformationSnapshot{Kind: "resulting_size", Width: w, Height: h}
	}

	if w, h, ok := t.AsScale(); ok {
		return TransformationSnapshot{Kind: "scale", Width: w, Height: h}
	}

	l, t2, r, b, _ := t.AsPadding()

	return TransformationSnapshot{Kind: "padding", Left: l, Top: t2, Right: r, Bottom: b}
}

func transformationFromSnapshot(s TransformationSnapshot) (VideoFrameTransformation, error) {

	switch s.Kind {
	case "initial_size":
		return InitialSize(s.Width, s.Height), nil
	case "resulting_size":
		return ResultingSize(s.Width, s.Height), nil
	case "scale":
		return Scale(s.Width, s.Height), nil
	case "padding":
		return Padding(s.Left, s.Top, s.Right, s.Bottom), nil
	}

	return VideoFrameTransformation{}, fmt.Errorf("%w: transformation kind %q",
		ErrUnknownVariant, s.Kind)
}

// ObjectSnapshot is the serializable form of a video object
type ObjectSnapshot struct {
	ID           int64               `cbor:"id" json:"id"`
	Namespace    string              `cbor:"namespace" json:"namespace"`
	Label        string              `cbor:"label" json:"label"`
	Confidence   *float64            `cbor:"confidence,omitempty" json:"confidence,omitempty"`
	DetectionBox RBBoxSnapshot       `cbor:"detection_box" json:"detection_box"`
	TrackID      *int64              `cbor:"track_id,omitempty" json:"track_id,omitempty"`
	TrackBox     *RBBoxSnapshot      `cbor:"track_box,omitempty" json:"track_box,omitempty"`
	ParentID     *int64              `cbor:"parent_id,omitempty" json:"parent_id,omitempty"`
	DrawLabel    *string             `cbor:"draw_label,omitempty" json:"draw_label,omitempty"`
	Attributes   []AttributeSnapshot `cbor:"attributes,omitempty" json:"attributes,omitempty"`
}

// newObjectSnapshot reads fields directly, the caller holds the frame lock
// when the object is attached
func newObjectSnapshot(o *VideoObject) ObjectSnapshot {

	s := ObjectSnapshot{
		ID:           o.id,
		Namespace:    o.namespace,
		Label:        o.label,
		DetectionBox: newBoxSnapshot(o.detectionBox),
		Attributes:   storeSnapshot(&o.attributes),
	}

	if o.confidence != nil {
		c := *o.confidence
		s.Confidence = &c
	}

	if o.trackID != nil {
		id := *o.trackID
		s.TrackID = &id
	}

	if o.trackBox != nil {
		b := newBoxSnapshot(*o.trackBox)
		s.TrackBox = &b
	}

	if o.parentID != nil {
		id := *o.parentID
		s.ParentID = &id
	}

	if o.drawLabel != nil {
		l := *o.drawLabel
		s.DrawLabel = &l
	}

	return s
}

// objectFromSnapshot builds a detached object, parent links are kept as raw
// ids for the frame restore to validate
func objectFromSnapshot(s ObjectSnapshot) (*VideoObject, error) {

	o := &VideoObject{
		id:           s.ID,
		namespace:    s.Namespace,
		label:        s.Label,
		detectionBox: boxFromSnapshot(s.DetectionBox),
	}

	if s.Confidence != nil {
		c := *s.Confidence
		o.confidence = &c
	}

	if s.TrackID != nil {
		id := *s.TrackID
		o.trackID = &id
	}

	if s.TrackBox != nil {
		b := boxFromSnapshot(*s.TrackBox)
		o.trackBox = &b
	}

	if s.ParentID != nil {
		id := *s.ParentID
		o.parentID = &id
	}

	if s.DrawLabel != nil {
		l := *s.DrawLabel
		o.drawLabel = &l
	}

	if err := fillStore(&o.attributes, s.Attributes); err != nil {
		return nil, fmt.Errorf("object %d: %w", s.ID, err)
	}

	return o, nil
}

// VideoFrameSnapshot is the serializable form of a whole frame. It carries
// everything needed to reconstruct an equivalent frame, including the burnt
// id watermark and the original uuid.
type VideoFrameSnapshot struct {
	UUID              string                   `cbor:"uuid" json:"uuid"`
	SourceID          string                   `cbor:"source_id" json:"source_id"`
	Framerate         string                   `cbor:"framerate" json:"framerate"`
	Width             int64                    `cbor:"width" json:"width"`
	Height            int64                    `cbor:"height" json:"height"`
	Content           ContentSnapshot          `cbor:"content" json:"content"`
	Codec             *string                  `cbor:"codec,omitempty" json:"codec,omitempty"`
	Keyframe          *bool                    `cbor:"keyframe,omitempty" json:"keyframe,omitempty"`
	PTS               int64                    `cbor:"pts" json:"pts"`
	DTS               *int64                   `cbor:"dts,omitempty" json:"dts,omitempty"`
	Duration          *int64                   `cbor:"duration,omitempty" json:"duration,omitempty"`
	CreationTimestamp int64                    `cbor:"creation_timestamp" json:"creation_timestamp"`
	Attributes        []AttributeSnapshot      `cbor:"attributes,omitempty" json:"attributes,omitempty"`
	Transformations   []TransformationSnapshot `cbor:"transformations,omitempty" json:"transformations,omitempty"`
	Objects           []ObjectSnapshot         `cbor:"objects,omitempty" json:"objects,omitempty"`
	MaxObjectID       int64                    `cbor:"max_object_id" json:"max_object_id"`
}

// Snapshot captures the frame as plain serializable data. The snapshot is a
// deep copy, later frame changes do not show up in it.
func (f *VideoFrame) Snapshot() *VideoFrameSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	s := &VideoFrameSnapshot{
		UUID:              f.uuid.String(),
		SourceID:          f.sourceID,
		Framerate:         f.framerate,
		Width:             f.width,
		Height:            f.height,
		Content:           newContentSnapshot(f.content),
		PTS:               f.pts,
		CreationTimestamp: f.creationTimestamp,
		Attributes:        storeSnapshot(&f.attributes),
		MaxObjectID:       f.maxObjectID,
	}

	if f.codec != nil {
		c := *f.codec
		s.Codec = &c
	}

	if f.keyframe != nil {
		k := *f.keyframe
		s.Keyframe = &k
	}

	if f.dts != nil {
		d := *f.dts
		s.DTS = &d
	}

	if f.duration != nil {
		d := *f.duration
		s.Duration = &d
	}

	for _, t := range f.transformations {
		s.Transformations = append(s.Transformations, newTransformationSnapshot(t))
	}

	for _, id := range f.order {
		s.Objects = append(s.Objects, newObjectSnapshot(f.objects[id]))
	}

	return s
}

// FrameFromSnapshot reconstructs a frame from its serialized form. The uuid
// and creation timestamp are restored as recorded, not regenerated. Object
// ids must be unique and parent links must resolve within the snapshot.
func FrameFromSnapshot(s *VideoFrameSnapshot) (*VideoFrame, error) {

	id, err := uuid.Parse(s.UUID)

	if err != nil {
		return nil, fmt.Errorf("parse frame uuid: %w", err)
	}

	content, err := contentFromSnapshot(s.Content)

	if err != nil {
		return nil, err
	}

	f := &VideoFrame{
		uuid:              id,
		sourceID:          s.SourceID,
		framerate:         s.Framerate,
		width:             s.Width,
		height:            s.Height,
		content:           content,
		pts:               s.PTS,
		creationTimestamp: s.CreationTimestamp,
		objects:           make(map[int64]*VideoObject, len(s.Objects)),
		maxObjectID:       s.MaxObjectID,
	}

	if s.Codec != nil {
		c := *s.Codec
		f.codec = &c
	}

	if s.Keyframe != nil {
		k := *s.Keyframe
		f.keyframe = &k
	}

	if s.DTS != nil {
		d := *s.DTS
		f.dts = &d
	}

	if s.Duration != nil {
		d := *s.Duration
		f.duration = &d
	}

	if err := fillStore(&f.attributes, s.Attributes); err != nil {
		return nil, err
	}

	for _, ts := range s.Transformations {
		t, err := transformationFromSnapshot(ts)

		if err != nil {
			return nil, err
		}

		f.transformations = append(f.transformations, t)
	}

	for _, os := range s.Objects {
		o, err := objectFromSnapshot(os)

		if err != nil {
			return nil, err
		}

		if _, taken := f.objects[o.id]; taken {
			return nil, fmt.Errorf("%w: object %d", ErrDuplicateID, o.id)
		}

		f.objects[o.id] = o
		f.order = append(f.order, o.id)
		o.frame = f

		if o.id > f.maxObjectID {
			f.maxObjectID = o.id
		}
	}

	// parent links must resolve and must not loop
	for _, id := range f.order {
		o := f.objects[id]

		if o.parentID == nil {
			continue
		}

		if _, ok := f.objects[*o.parentID]; !ok {
			return nil, fmt.Errorf("%w: object %d parent %d", ErrNoSuchObject,
				id, *o.parentID)
		}

		steps := 0

		for cur := o; cur.parentID != nil; cur = f.objects[*cur.parentID] {
			steps++

			if steps > len(f.order) {
				return nil, fmt.Errorf("%w: parent chain of object %d",
					ErrParentCycle, id)
			}
		}
	}

	return f, nil
}

// DropUnknownValues removes attribute values whose kind this version does
// not recognize, so payloads written under a newer schema can still be
// restored. An attribute emptied by the removal is dropped with its values.
func (s *VideoFrameSnapshot) DropUnknownValues() {

	s.Attributes = dropUnknownAttributeValues(s.Attributes)

	for i := range s.Objects {
		o := &s.Objects[i]
		o.Attributes = dropUnknownAttributeValues(o.Attributes)
	}
}

// UserDataSnapshot is the serializable form of a user data record
type UserDataSnapshot struct {
	SourceID   string              `cbor:"source_id" json:"source_id"`
	Attributes []AttributeSnapshot `cbor:"attributes,omitempty" json:"attributes,omitempty"`
}

// Snapshot captures the record as plain serializable data
func (u *UserData) Snapshot() *UserDataSnapshot {

	return &UserDataSnapshot{
		SourceID:   u.sourceID,
		Attributes: storeSnapshot(&u.attributes),
	}
}

// UserDataFromSnapshot reconstructs a user data record
func UserDataFromSnapshot(s *UserDataSnapshot) (*UserData, error) {

	u := NewUserData(s.SourceID)

	if err := fillStore(&u.attributes, s.Attributes); err != nil {
		return nil, err
	}

	return u, nil
}

// DropUnknownValues removes attribute values with unrecognized kinds
func (s *UserDataSnapshot) DropUnknownValues() {
	s.Attributes = dropUnknownAttributeValues(s.Attributes)
}

// EndOfStreamSnapshot is the serializable form of an end of stream marker
type EndOfStreamSnapshot struct {
	SourceID string `cbor:"source_id" json:"source_id"`
}

// Snapshot captures the marker as plain serializable data
func (e *EndOfStream) Snapshot() *EndOfStreamSnapshot {
	return &EndOfStreamSnapshot{SourceID: e.sourceID}
}

// EndOfStreamFromSnapshot reconstructs an end of stream marker
func EndOfStreamFromSnapshot(s *EndOfStreamSnapshot) *EndOfStream {
	return NewEndOfStream(s.SourceID)
}

// ObjectAttributeSnapshot addresses one attribute delta inside an update
type ObjectAttributeSnapshot struct {
	ObjectID  int64             `cbor:"object_id" json:"object_id"`
	Attribute AttributeSnapshot `cbor:"attribute" json:"attribute"`
}

// UpdateObjectSnapshot carries one incoming object and its requested parent
type UpdateObjectSnapshot struct {
	Object   ObjectSnapshot `cbor:"object" json:"object"`
	ParentID *int64         `cbor:"parent_id,omitempty" json:"parent_id,omitempty"`
}

// VideoFrameUpdateSnapshot is the serializable form of a frame update
type VideoFrameUpdateSnapshot struct {
	FrameAttributes       []AttributeSnapshot       `cbor:"frame_attributes,omitempty" json:"frame_attributes,omitempty"`
	ObjectAttributes      []ObjectAttributeSnapshot `cbor:"object_attributes,omitempty" json:"object_attributes,omitempty"`
	Objects               []UpdateObjectSnapshot    `cbor:"objects,omitempty" json:"objects,omitempty"`
	FrameAttributePolicy  string                    `cbor:"frame_attribute_policy" json:"frame_attribute_policy"`
	ObjectAttributePolicy string                    `cbor:"object_attribute_policy" json:"object_attribute_policy"`
	ObjectPolicy          string                    `cbor:"object_policy" json:"object_policy"`
}

// Snapshot captures the update as plain serializable data
func (u *VideoFrameUpdate) Snapshot() *VideoFrameUpdateSnapshot {

	s := &VideoFrameUpdateSnapshot{
		FrameAttributePolicy:  u.frameAttributePolicy.String(),
		ObjectAttributePolicy: u.objectAttributePolicy.String(),
		ObjectPolicy:          u.objectPolicy.String(),
	}

	for _, a := range u.frameAttributes {
		if as, ok := newAttributeSnapshot(a); ok {
			s.FrameAttributes = append(s.FrameAttributes, as)
		}
	}

	for _, oa := range u.objectAttributes {
		if as, ok := newAttributeSnapshot(oa.attr); ok {
			s.ObjectAttributes = append(s.ObjectAttributes,
				ObjectAttributeSnapshot{ObjectID: oa.objectID, Attribute: as})
		}
	}

	for _, in := range u.objects {
		os := newObjectSnapshot(in.object)

		// the requested parent travels beside the object, not inside it
		os.ParentID = nil

		entry := UpdateObjectSnapshot{Object: os}

		if in.parentID != nil {
			pid := *in.parentID
			entry.ParentID = &pid
		}

		s.Objects = append(s.Objects, entry)
	}

	return s
}

func attributeUpdatePolicyFromName(name string) (AttributeUpdatePolicy, error) {

	switch name {
	case "replace_with_foreign", "":
		return ReplaceWithForeign, nil
	case "keep_own":
		return KeepOwn, nil
	case "error":
		return ErrorOnCollision, nil
	}

	return 0, fmt.Errorf("%w: attribute update policy %q", ErrUnknownVariant,
		name)
}

func objectUpdatePolicyFromName(name string) (ObjectUpdatePolicy, error) {

	switch name {
	case "add_foreign_objects", "":
		return AddForeignObjects, nil
	case "error_if_labels_collide":
		return ErrorIfLabelsCollide, nil
	case "replace_same_label_objects":
		return ReplaceSameLabelObjects, nil
	}

	return 0, fmt.Errorf("%w: object update policy %q", ErrUnknownVariant, name)
}

// UpdateFromSnapshot reconstructs a frame update
func UpdateFromSnapshot(s *VideoFrameUpdateSnapshot) (*VideoFrameUpdate, error) {

	u := NewVideoFrameUpdate()

	var err error

	if u.frameAttributePolicy, err = attributeUpdatePolicyFromName(s.FrameAttributePolicy); err != nil {
		return nil, err
	}

	if u.objectAttributePolicy, err = attributeUpdatePolicyFromName(s.ObjectAttributePolicy); err != nil {
		return nil, err
	}

	if u.objectPolicy, err = objectUpdatePolicyFromName(s.ObjectPolicy); err != nil {
		return nil, err
	}

	for _, as := range s.FrameAttributes {
		a, err := attributeFromSnapshot(as)

		if err != nil {
			return nil, err
		}

		u.frameAttributes = append(u.frameAttributes, a)
	}

	for _, oas := range s.ObjectAttributes {
		a, err := attributeFromSnapshot(oas.Attribute)

		if err != nil {
			return nil, err
		}

		u.objectAttributes = append(u.objectAttributes,
			objectAttributeUpdate{objectID: oas.ObjectID, attr: a})
	}

	for _, entry := range s.Objects {
		o, err := objectFromSnapshot(entry.Object)

		if err != nil {
			return nil, err
		}

		u.AddObject(o, entry.ParentID)
	}

	return u, nil
}

// DropUnknownValues removes attribute values with unrecognized kinds from
// every delta of the update. An object attribute delta whose attribute is
// emptied goes away entirely.
func (s *VideoFrameUpdateSnapshot) DropUnknownValues() {

	s.FrameAttributes = dropUnknownAttributeValues(s.FrameAttributes)

	deltas := s.ObjectAttributes[:0]

	for _, d := range s.ObjectAttributes {
		kept := dropUnknownAttributeValues([]AttributeSnapshot{d.Attribute})

		if len(kept) == 0 {
			continue
		}

		d.Attribute = kept[0]
		deltas = append(deltas, d)
	}

	s.ObjectAttributes = deltas

	for i := range s.Objects {
		o := &s.Objects[i].Object
		o.Attributes = dropUnknownAttributeValues(o.Attributes)
	}
}

// BatchEntrySnapshot pairs a batch slot id with its frame
type BatchEntrySnapshot struct {
	ID    int64               `cbor:"id" json:"id"`
	Frame *VideoFrameSnapshot `cbor:"frame" json:"frame"`
}

// VideoFrameBatchSnapshot is the serializable form of a frame batch
type VideoFrameBatchSnapshot struct {
	Frames []BatchEntrySnapshot `cbor:"frames,omitempty" json:"frames,omitempty"`
}

// Snapshot captures the batch as plain serializable data, slot order is
// preserved
func (b *VideoFrameBatch) Snapshot() *VideoFrameBatchSnapshot {

	s := &VideoFrameBatchSnapshot{}

	for _, id := range b.order {
		s.Frames = append(s.Frames,
			BatchEntrySnapshot{ID: id, Frame: b.frames[id].Snapshot()})
	}

	return s
}

// BatchFromSnapshot reconstructs a frame batch
func BatchFromSnapshot(s *VideoFrameBatchSnapshot) (*VideoFrameBatch, error) {

	b := NewVideoFrameBatch()

	for _, entry := range s.Frames {
		f, err := FrameFromSnapshot(entry.Frame)

		if err != nil {
			return nil, fmt.Errorf("batch frame %d: %w", entry.ID, err)
		}

		b.Add(entry.ID, f)
	}

	return b, nil
}

// DropUnknownValues removes attribute values with unrecognized kinds from
// every frame of the batch
func (s *VideoFrameBatchSnapshot) DropUnknownValues() {

	for _, entry := range s.Frames {
		if entry.Frame != nil {
			entry.Frame.DropUnknownValues()
		}
	}
}
