package query

import (
	"testing"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
)

// testObject is a self contained Object implementation for evaluation tests
type testObject struct {
	id         int64
	namespace  string
	label      string
	confidence *float64
	box        geometry.RBBox
	trackID    *int64
	trackBox   *geometry.RBBox
	parent     *testObject
	children   []*testObject
	attributes attribute.Store
}

func (o *testObject) ID() int64 {
	return o.id
}

func (o *testObject) Namespace() string {
	return o.namespace
}

func (o *testObject) Label() string {
	return o.label
}

func (o *testObject) Confidence() (float64, bool) {

	if o.confidence == nil {
		return 0, false
	}

	return *o.confidence, true
}

func (o *testObject) DetectionBox() geometry.RBBox {
	return o.box
}

func (o *testObject) TrackID() (int64, bool) {

	if o.trackID == nil {
		return 0, false
	}

	return *o.trackID, true
}

func (o *testObject) TrackBox() (geometry.RBBox, bool) {

	if o.trackBox == nil {
		return geometry.RBBox{}, false
	}

	return *o.trackBox, true
}

func (o *testObject) Parent() (Object, bool) {

	if o.parent == nil {
		return nil, false
	}

	return o.parent, true
}

func (o *testObject) Children() []Object {

	children := make([]Object, len(o.children))

	for i, c := range o.children {
		children[i] = c
	}

	return children
}

func (o *testObject) Attribute(namespace, name string) (attribute.Attribute, bool) {
	return o.attributes.Get(namespace, name)
}

func (o *testObject) AttributeCount() int {
	return o.attributes.Len()
}

func floatPtr(v float64) *float64 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

// testScene builds a small object graph. A tracked person with a face and a
// hand child, plus an unrelated car with no confidence, no track and no
// attributes.
func testScene() (person, face, hand, car *testObject) {

	trackBox := geometry.NewRBBoxWithAngle(51, 60, 20, 40, 15)

	person = &testObject{
		id:         0,
		namespace:  "detector",
		label:      "person",
		confidence: floatPtr(0.85),
		box:        geometry.NewRBBox(50, 60, 20, 40),
		trackID:    int64Ptr(10),
		trackBox:   &trackBox,
	}

	face = &testObject{
		id:         1,
		namespace:  "detector",
		label:      "face",
		confidence: floatPtr(0.6),
		box:        geometry.NewRBBox(50, 45, 8, 8),
		parent:     person,
	}

	face.attributes.Set(attribute.New("classifier", "age", attribute.Float(33.5)))
	face.attributes.Set(attribute.New("classifier", "gender", attribute.String("female")))
	face.attributes.Set(attribute.New("analytics", "scores",
		attribute.Integer(3), attribute.Integer(7), attribute.String("n/a")))
	face.attributes.Set(attribute.NewHidden("meta", "raw", attribute.String("x")))

	hand = &testObject{
		id:         2,
		namespace:  "detector",
		label:      "hand",
		confidence: floatPtr(0.4),
		box:        geometry.NewRBBox(40, 70, 6, 10),
		parent:     person,
	}

	person.children = []*testObject{face, hand}

	car = &testObject{
		id:        3,
		namespace: "detector",
		label:     "car",
		box:       geometry.NewRBBoxWithAngle(200, 100, 80, 40, 45),
	}

	return person, face, hand, car
}

func TestQueryFieldPredicates(t *testing.T) {

	person, face, _, car := testScene()

	tests := []struct {
		name string
		q    MatchQuery
		o    Object
		want bool
	}{
		{"idle", Idle(), car, true},
		{"id hit", ID(IntEQ(0)), person, true},
		{"id miss", ID(IntEQ(0)), face, false},
		{"id one_of", ID(IntOneOf(1, 3)), face, true},
		{"namespace", Namespace(StrEQ("detector")), person, true},
		{"label eq", Label(StrEQ("person")), person, true},
		{"label miss", Label(StrEQ("person")), car, false},
		{"label one_of", Label(StrOneOf("car", "truck")), car, true},
		{"confidence ge", Confidence(FloatGE(0.8)), person, true},
		{"confidence lt", Confidence(FloatLT(0.8)), face, true},
		{"confidence unset", Confidence(FloatGE(0)), car, false},
		{"confidence defined", ConfidenceDefined(), person, true},
		{"confidence not defined", ConfidenceDefined(), car, false},
	}

	for _, tt := range tests {
		if got := tt.q.Matches(tt.o); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQueryCombinators(t *testing.T) {

	person, face, _, car := testScene()

	and := And(Namespace(StrEQ("detector")), Confidence(FloatGE(0.5)))

	if !and.Matches(person) || !and.Matches(face) {
		t.Error("and should match person and face")
	}

	if and.Matches(car) {
		t.Error("and should not match car without confidence")
	}

	or := Or(Label(StrEQ("car")), Label(StrEQ("person")))

	if !or.Matches(person) || !or.Matches(car) {
		t.Error("or should match person and car")
	}

	if or.Matches(face) {
		t.Error("or should not match face")
	}

	if Not(or).Matches(person) {
		t.Error("not should invert the inner query")
	}

	if !Not(or).Matches(face) {
		t.Error("not should match objects the inner query rejects")
	}

	// empty conjunction is vacuously true, empty disjunction is false
	if !And().Matches(car) {
		t.Error("empty and should match")
	}

	if Or().Matches(car) {
		t.Error("empty or should not match")
	}
}

func TestQueryTrackPredicates(t *testing.T) {

	person, _, _, car := testScene()

	tests := []struct {
		name string
		q    MatchQuery
		o    Object
		want bool
	}{
		{"track defined", TrackDefined(), person, true},
		{"track not defined", TrackDefined(), car, false},
		{"track id hit", TrackID(IntEQ(10)), person, true},
		{"track id untracked", TrackID(IntEQ(10)), car, false},
		{"track box width", TrackBoxWidth(FloatEQ(20)), person, true},
		{"track box height", TrackBoxHeight(FloatEQ(40)), person, true},
		{"track box x", TrackBoxXCenter(FloatEQ(51)), person, true},
		{"track box y", TrackBoxYCenter(FloatEQ(60)), person, true},
		{"track box area", TrackBoxArea(FloatEQ(800)), person, true},
		{"track box ratio", TrackBoxRatio(FloatEQ(0.5)), person, true},
		{"track box angle", TrackBoxAngle(FloatEQ(15)), person, true},
		{"track box angle defined", TrackBoxAngleDefined(), person, true},
		{"track box untracked", TrackBoxWidth(FloatGE(0)), car, false},
		{"track box angle untracked", TrackBoxAngleDefined(), car, false},
		{"track box metric", TrackBoxMetric(
			geometry.NewRBBoxWithAngle(51, 60, 20, 40, 15),
			geometry.MetricIoU, FloatGE(0.99)), person, true},
	}

	for _, tt := range tests {
		if got := tt.q.Matches(tt.o); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQueryBoxPredicates(t *testing.T) {

	person, _, hand, car := testScene()

	tests := []struct {
		name string
		q    MatchQuery
		o    Object
		want bool
	}{
		{"x center", BoxXCenter(FloatEQ(50)), person, true},
		{"y center", BoxYCenter(FloatEQ(60)), person, true},
		{"width", BoxWidth(FloatEQ(20)), person, true},
		{"height between", BoxHeight(FloatBetween(30, 50)), person, true},
		{"area", BoxArea(FloatEQ(800)), person, true},
		{"ratio", BoxRatio(FloatEQ(0.5)), person, true},
		{"angle unset", BoxAngle(FloatEQ(0)), person, false},
		{"angle defined miss", BoxAngleDefined(), person, false},
		{"angle hit", BoxAngle(FloatEQ(45)), car, true},
		{"angle defined hit", BoxAngleDefined(), car, true},
		{"metric self", BoxMetric(geometry.NewRBBox(50, 60, 20, 40),
			geometry.MetricIoU, FloatGT(0.9)), person, true},
		{"metric disjoint", BoxMetric(geometry.NewRBBox(50, 60, 20, 40),
			geometry.MetricIoU, FloatGT(0.9)), hand, false},
		{"metric ioself", BoxMetric(geometry.NewRBBox(50, 60, 40, 80),
			geometry.MetricIoSelf, FloatGE(0.99)), person, true},
	}

	for _, tt := range tests {
		if got := tt.q.Matches(tt.o); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQueryBoxIntersectsArea(t *testing.T) {

	person, _, _, car := testScene()

	area := geometry.NewPolygonalArea([]geometry.Point{
		{X: 30, Y: 40}, {X: 70, Y: 40}, {X: 70, Y: 80}, {X: 30, Y: 80},
	}, nil)

	q := BoxIntersectsArea(area)

	if !q.Matches(person) {
		t.Error("person box should intersect the area")
	}

	if q.Matches(car) {
		t.Error("car box should not intersect the area")
	}
}

func TestQueryParentPredicates(t *testing.T) {

	person, face, hand, car := testScene()

	tests := []struct {
		name string
		q    MatchQuery
		o    Object
		want bool
	}{
		{"parent defined", ParentDefined(), face, true},
		{"parent not defined", ParentDefined(), person, false},
		{"parent id", ParentID(IntEQ(0)), face, true},
		{"parent id orphan", ParentID(IntEQ(0)), car, false},
		{"parent namespace", ParentNamespace(StrEQ("detector")), hand, true},
		{"parent label", ParentLabel(StrEQ("person")), face, true},
		{"parent label miss", ParentLabel(StrEQ("car")), face, false},
	}

	for _, tt := range tests {
		if got := tt.q.Matches(tt.o); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQueryWithChildren(t *testing.T) {

	person, face, _, _ := testScene()

	tests := []struct {
		name string
		q    MatchQuery
		o    Object
		want bool
	}{
		{"one face child", WithChildren(Label(StrEQ("face")), IntEQ(1)), person, true},
		{"two children", WithChildren(Idle(), IntGE(2)), person, true},
		{"no car children", WithChildren(Label(StrEQ("car")), IntEQ(0)), person, true},
		{"leaf counts zero", WithChildren(Idle(), IntEQ(0)), face, true},
		{"leaf has none", WithChildren(Idle(), IntGE(1)), face, false},
	}

	for _, tt := range tests {
		if got := tt.q.Matches(tt.o); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQueryAttributePredicates(t *testing.T) {

	_, face, _, car := testScene()

	tests := []struct {
		name string
		q    MatchQuery
		o    Object
		want bool
	}{
		{"defined", AttributeDefined("classifier", "age"), face, true},
		{"defined hidden", AttributeDefined("meta", "raw"), face, true},
		{"defined miss", AttributeDefined("classifier", "age"), car, false},
		{"empty hit", AttributesEmpty(), car, true},
		{"empty miss", AttributesEmpty(), face, false},
		{"int any value", AttributeIntValue("analytics", "scores", IntGT(5)), face, true},
		{"int no value", AttributeIntValue("analytics", "scores", IntEQ(4)), face, false},
		{"int wrong key", AttributeIntValue("analytics", "missing", IntGT(0)), face, false},
		{"float between", AttributeFloatValue("classifier", "age",
			FloatBetween(30, 40)), face, true},
		{"float miss", AttributeFloatValue("classifier", "age",
			FloatGT(40)), face, false},
		{"string eq", AttributeStringValue("classifier", "gender",
			StrEQ("female")), face, true},
		{"string in mixed values", AttributeStringValue("analytics", "scores",
			StrEQ("n/a")), face, true},
	}

	for _, tt := range tests {
		if got := tt.q.Matches(tt.o); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func ids(objects []Object) []int64 {

	out := make([]int64, len(objects))

	for i, o := range objects {
		out[i] = o.ID()
	}

	return out
}

func sameIDs(a, b []int64) bool {

	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestFilter(t *testing.T) {

	person, face, hand, car := testScene()
	objects := []Object{person, face, hand, car}

	got := Filter(objects, Confidence(FloatGE(0.5)))

	if !sameIDs(ids(got), []int64{0, 1}) {
		t.Errorf("filter ids = %v, want [0 1]", ids(got))
	}

	// filtering twice equals filtering on the conjunction
	q1 := Namespace(StrEQ("detector"))
	q2 := Confidence(FloatGE(0.5))

	twice := Filter(Filter(objects, q1), q2)
	joint := Filter(objects, And(q1, q2))

	if !sameIDs(ids(twice), ids(joint)) {
		t.Errorf("sequential filter = %v, conjunction = %v", ids(twice), ids(joint))
	}

	if got := Filter(objects, Idle()); len(got) != len(objects) {
		t.Errorf("idle filter kept %d of %d", len(got), len(objects))
	}
}

func TestPartition(t *testing.T) {

	person, face, hand, car := testScene()
	objects := []Object{person, face, hand, car}

	matched, rest := Partition(objects, ParentDefined())

	if !sameIDs(ids(matched), []int64{1, 2}) {
		t.Errorf("matched ids = %v, want [1 2]", ids(matched))
	}

	if !sameIDs(ids(rest), []int64{0, 3}) {
		t.Errorf("rest ids = %v, want [0 3]", ids(rest))
	}

	if len(matched)+len(rest) != len(objects) {
		t.Error("partition lost objects")
	}
}
