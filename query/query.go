// Package query implements a composable predicate language evaluated
// against the objects of a video frame. Queries are closed expression
// trees, evaluation never mutates the objects it inspects.
package query

import (
	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
)

// Object is the read only view of a frame object that a query evaluates
// against. Implementations resolve parent and child links within the
// owning frame.
type Object interface {
	// ID returns the object id
	ID() int64
	// Namespace returns the object namespace
	Namespace() string
	// Label returns the object label
	Label() string
	// Confidence returns the detection confidence and whether one is set
	Confidence() (float64, bool)
	// DetectionBox returns the object detection box
	DetectionBox() geometry.RBBox
	// TrackID returns the track id and whether one is set
	TrackID() (int64, bool)
	// TrackBox returns the track box and whether one is set
	TrackBox() (geometry.RBBox, bool)
	// Parent returns the parent object and whether one is set
	Parent() (Object, bool)
	// Children returns the direct children of the object
	Children() []Object
	// Attribute returns the attribute stored under the exact key,
	// hidden attributes included
	Attribute(namespace, name string) (attribute.Attribute, bool)
	// AttributeCount returns the number of attributes including hidden
	// ones
	AttributeCount() int
}

// queryKind identifies the predicate variant of a MatchQuery
type queryKind int

const (
	kindIdle queryKind = iota
	kindAnd
	kindOr
	kindNot
	kindID
	kindNamespace
	kindLabel
	kindConfidence
	kindConfidenceDefined
	kindTrackDefined
	kindTrackID
	kindTrackBoxXCenter
	kindTrackBoxYCenter
	kindTrackBoxWidth
	kindTrackBoxHeight
	kindTrackBoxArea
	kindTrackBoxRatio
	kindTrackBoxAngle
	kindTrackBoxAngleDefined
	kindTrackBoxMetric
	kindBoxXCenter
	kindBoxYCenter
	kindBoxWidth
	kindBoxHeight
	kindBoxArea
	kindBoxRatio
	kindBoxAngle
	kindBoxAngleDefined
	kindBoxMetric
	kindBoxIntersectsArea
	kindParentDefined
	kindParentID
	kindParentNamespace
	kindParentLabel
	kindWithChildren
	kindAttributeDefined
	kindAttributesEmpty
	kindAttributeIntValue
	kindAttributeFloatValue
	kindAttributeStringValue
)

// MatchQuery is a composable predicate expression evaluated against the
// objects of a frame
type MatchQuery struct {
	kind      queryKind
	intExpr   IntExpression
	floatExpr FloatExpression
	strExpr   StringExpression
	children  []MatchQuery
	sub       *MatchQuery
	namespace string
	name      string
	box       geometry.RBBox
	metric    geometry.MetricType
	area      geometry.PolygonalArea
}

// Idle matches every object
func Idle() MatchQuery {
	return MatchQuery{kind: kindIdle}
}

// And matches objects satisfying all of the given queries
func And(queries ...MatchQuery) MatchQuery {
	children := make([]MatchQuery, len(queries))
	copy(children, queries)
	return MatchQuery{kind: kindAnd, children: children}
}

// Or matches objects satisfying at least one of the given queries
func Or(queries ...MatchQuery) MatchQuery {
	children := make([]MatchQuery, len(queries))
	copy(children, queries)
	return MatchQuery{kind: kindOr, children: children}
}

// Not matches objects not satisfying the given query
func Not(q MatchQuery) MatchQuery {
	return MatchQuery{kind: kindNot, sub: &q}
}

// ID matches on the object id
func ID(e IntExpression) MatchQuery {
	return MatchQuery{kind: kindID, intExpr: e}
}

// Namespace matches on the object namespace
func Namespace(e StringExpression) MatchQuery {
	return MatchQuery{kind: kindNamespace, strExpr: e}
}

// Label matches on the object label
func Label(e StringExpression) MatchQuery {
	return MatchQuery{kind: kindLabel, strExpr: e}
}

// Confidence matches on the detection confidence, objects without one never
// match
func Confidence(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindConfidence, floatExpr: e}
}

// ConfidenceDefined matches objects with a detection confidence set
func ConfidenceDefined() MatchQuery {
	return MatchQuery{kind: kindConfidenceDefined}
}

// TrackDefined matches objects with a track id set
func TrackDefined() MatchQuery {
	return MatchQuery{kind: kindTrackDefined}
}

// TrackID matches on the track id, untracked objects never match
func TrackID(e IntExpression) MatchQuery {
	return MatchQuery{kind: kindTrackID, intExpr: e}
}

// TrackBoxXCenter matches on the track box center x coordinate
func TrackBoxXCenter(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxXCenter, floatExpr: e}
}

// TrackBoxYCenter matches on the track box center y coordinate
func TrackBoxYCenter(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxYCenter, floatExpr: e}
}

// TrackBoxWidth matches on the track box width
func TrackBoxWidth(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxWidth, floatExpr: e}
}

// TrackBoxHeight matches on the track box height
func TrackBoxHeight(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxHeight, floatExpr: e}
}

// TrackBoxArea matches on the track box area
func TrackBoxArea(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxArea, floatExpr: e}
}

// TrackBoxRatio matches on the track box width to height ratio
func TrackBoxRatio(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxRatio, floatExpr: e}
}

// TrackBoxAngle matches on the track box rotation angle, boxes without an
// angle never match
func TrackBoxAngle(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindTrackBoxAngle, floatExpr: e}
}

// TrackBoxAngleDefined matches objects whose track box has an angle set
func TrackBoxAngleDefined() MatchQuery {
	return MatchQuery{kind: kindTrackBoxAngleDefined}
}

// TrackBoxMetric matches objects whose track box overlap with the given box,
// measured with the given metric, satisfies the threshold expression
func TrackBoxMetric(other geometry.RBBox, metric geometry.MetricType,
	threshold FloatExpression) MatchQuery {

	return MatchQuery{
		kind:      kindTrackBoxMetric,
		box:       other,
		metric:    metric,
		floatExpr: threshold,
	}
}

// BoxXCenter matches on the detection box center x coordinate
func BoxXCenter(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxXCenter, floatExpr: e}
}

// BoxYCenter matches on the detection box center y coordinate
func BoxYCenter(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxYCenter, floatExpr: e}
}

// BoxWidth matches on the detection box width
func BoxWidth(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxWidth, floatExpr: e}
}

// BoxHeight matches on the detection box height
func BoxHeight(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxHeight, floatExpr: e}
}

// BoxArea matches on the detection box area
func BoxArea(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxArea, floatExpr: e}
}

// BoxRatio matches on the detection box width to height ratio
func BoxRatio(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxRatio, floatExpr: e}
}

// BoxAngle matches on the detection box rotation angle, boxes without an
// angle never match
func BoxAngle(e FloatExpression) MatchQuery {
	return MatchQuery{kind: kindBoxAngle, floatExpr: e}
}

// BoxAngleDefined matches objects whose detection box has an angle set
func BoxAngleDefined() MatchQuery {
	return MatchQuery{kind: kindBoxAngleDefined}
}

// BoxMetric matches objects whose detection box overlap with the given box,
// measured with the given metric, satisfies the threshold expression
func BoxMetric(other geometry.RBBox, metric geometry.MetricType,
	threshold FloatExpression) MatchQuery {

	return MatchQuery{
		kind:      kindBoxMetric,
		box:       other,
		metric:    metric,
		floatExpr: threshold,
	}
}

// BoxIntersectsArea matches objects whose detection box overlaps the given
// polygonal area
func BoxIntersectsArea(area geometry.PolygonalArea) MatchQuery {
	return MatchQuery{kind: kindBoxIntersectsArea, area: area}
}

// ParentDefined matches objects with a parent
func ParentDefined() MatchQuery {
	return MatchQuery{kind: kindParentDefined}
}

// ParentID matches on the parent object id, objects without a parent never
// match
func ParentID(e IntExpression) MatchQuery {
	return MatchQuery{kind: kindParentID, intExpr: e}
}

// ParentNamespace matches on the parent object namespace
func ParentNamespace(e StringExpression) MatchQuery {
	return MatchQuery{kind: kindParentNamespace, strExpr: e}
}

// ParentLabel matches on the parent object label
func ParentLabel(e StringExpression) MatchQuery {
	return MatchQuery{kind: kindParentLabel, strExpr: e}
}

// WithChildren matches objects whose count of direct children satisfying
// the sub query satisfies the count expression
func WithChildren(sub MatchQuery, count IntExpression) MatchQuery {
	return MatchQuery{kind: kindWithChildren, sub: &sub, intExpr: count}
}

// AttributeDefined matches objects holding an attribute under the exact
// key, hidden attributes included
func AttributeDefined(namespace, name string) MatchQuery {
	return MatchQuery{kind: kindAttributeDefined, namespace: namespace, name: name}
}

// AttributesEmpty matches objects holding no attributes at all
func AttributesEmpty() MatchQuery {
	return MatchQuery{kind: kindAttributesEmpty}
}

// AttributeIntValue matches objects holding the attribute with at least one
// integer value satisfying the expression
func AttributeIntValue(namespace, name string, e IntExpression) MatchQuery {
	return MatchQuery{
		kind:      kindAttributeIntValue,
		namespace: namespace,
		name:      name,
		intExpr:   e,
	}
}

// AttributeFloatValue matches objects holding the attribute with at least
// one float value satisfying the expression
func AttributeFloatValue(namespace, name string, e FloatExpression) MatchQuery {
	return MatchQuery{
		kind:      kindAttributeFloatValue,
		namespace: namespace,
		name:      name,
		floatExpr: e,
	}
}

// AttributeStringValue matches objects holding the attribute with at least
// one string value satisfying the expression
func AttributeStringValue(namespace, name string, e StringExpression) MatchQuery {
	return MatchQuery{
		kind:      kindAttributeStringValue,
		namespace: namespace,
		name:      name,
		strExpr:   e,
	}
}

// Matches reports whether the object satisfies the query
func (q MatchQuery) Matches(o Object) bool {

	switch q.kind {
	case kindIdle:
		return true

	case kindAnd:
		for _, c := range q.children {
			if !c.Matches(o) {
				return false
			}
		}
		return true

	case kindOr:
		for _, c := range q.children {
			if c.Matches(o) {
				return true
			}
		}
		return false

	case kindNot:
		return !q.sub.Matches(o)

	case kindID:
		return q.intExpr.Matches(o.ID())

	case kindNamespace:
		return q.strExpr.Matches(o.Namespace())

	case kindLabel:
		return q.strExpr.Matches(o.Label())

	case kindConfidence:
		c, ok := o.Confidence()
		return ok && q.floatExpr.Matches(c)

	case kindConfidenceDefined:
		_, ok := o.Confidence()
		return ok

	case kindTrackDefined:
		_, ok := o.TrackID()
		return ok

	case kindTrackID:
		id, ok := o.TrackID()
		return ok && q.intExpr.Matches(id)

	case kindTrackBoxXCenter, kindTrackBoxYCenter, kindTrackBoxWidth,
		kindTrackBoxHeight, kindTrackBoxArea, kindTrackBoxRatio,
		kindTrackBoxAngle, kindTrackBoxAngleDefined, kindTrackBoxMetric:

		box, ok := o.TrackBox()

		if !ok {
			return false
		}

		return q.matchesBox(box)

	case kindBoxXCenter, kindBoxYCenter, kindBoxWidth, kindBoxHeight,
		kindBoxArea, kindBoxRatio, kindBoxAngle, kindBoxAngleDefined,
		kindBoxMetric:

		return q.matchesBox(o.DetectionBox())

	case kindBoxIntersectsArea:
		return q.area.IntersectsBox(o.DetectionBox())

	case kindParentDefined:
		_, ok := o.Parent()
		return ok

	case kindParentID:
		p, ok := o.Parent()
		return ok && q.intExpr.Matches(p.ID())

	case kindParentNamespace:
		p, ok := o.Parent()
		return ok && q.strExpr.Matches(p.Namespace())

	case kindParentLabel:
		p, ok := o.Parent()
		return ok && q.strExpr.Matches(p.Label())

	case kindWithChildren:
		count := int64(0)

		for _, child := range o.Children() {
			if q.sub.Matches(child) {
				count++
			}
		}

		return q.intExpr.Matches(count)

	case kindAttributeDefined:
		_, ok := o.Attribute(q.namespace, q.name)
		return ok

	case kindAttributesEmpty:
		return o.AttributeCount() == 0

	case kindAttributeIntValue:
		a, ok := o.Attribute(q.namespace, q.name)

		if !ok {
			return false
		}

		for _, v := range a.Values {
			if val, ok := v.AsInteger(); ok && q.intExpr.Matches(val) {
				return true
			}
		}
		return false

	case kindAttributeFloatValue:
		a, ok := o.Attribute(q.namespace, q.name)

		if !ok {
			return false
		}

		for _, v := range a.Values {
			if val, ok := v.AsFloat(); ok && q.floatExpr.Matches(val) {
				return true
			}
		}
		return false

	case kindAttributeStringValue:
		a, ok := o.Attribute(q.namespace, q.name)

		if !ok {
			return false
		}

		for _, v := range a.Values {
			if val, ok := v.AsString(); ok && q.strExpr.Matches(val) {
				return true
			}
		}
		return false
	}

	return false
}

// matchesBox evaluates the box dimension predicates against the given box
func (q MatchQuery) matchesBox(box geometry.RBBox) bool {

	switch q.kind {
	case kindTrackBoxXCenter, kindBoxXCenter:
		return q.floatExpr.Matches(box.XCenter())
	case kindTrackBoxYCenter, kindBoxYCenter:
		return q.floatExpr.Matches(box.YCenter())
	case kindTrackBoxWidth, kindBoxWidth:
		return q.floatExpr.Matches(box.Width())
	case kindTrackBoxHeight, kindBoxHeight:
		return q.floatExpr.Matches(box.Height())
	case kindTrackBoxArea, kindBoxArea:
		return q.floatExpr.Matches(box.Area())
	case kindTrackBoxRatio, kindBoxRatio:
		return q.floatExpr.Matches(box.WidthToHeightRatio())
	case kindTrackBoxAngle, kindBoxAngle:
		angle, defined := box.Angle()
		return defined && q.floatExpr.Matches(angle)
	case kindTrackBoxAngleDefined, kindBoxAngleDefined:
		_, defined := box.Angle()
		return defined
	case kindTrackBoxMetric, kindBoxMetric:
		return q.floatExpr.Matches(geometry.Metric(box, q.box, q.metric))
	}

	return false
}

// Filter returns the objects matching the query, preserving relative order
func Filter(objects []Object, q MatchQuery) []Object {

	var matched []Object

	for _, o := range objects {
		if q.Matches(o) {
			matched = append(matched, o)
		}
	}

	return matched
}

// Partition splits the objects into those matching the query and those not,
// both preserving relative order. Every input object lands in exactly one
// of the two results.
func Partition(objects []Object, q MatchQuery) ([]Object, []Object) {

	var matched, rest []Object

	for _, o := range objects {
		if q.Matches(o) {
			matched = append(matched, o)
		} else {
			rest = append(rest, o)
		}
	}

	return matched, rest
}
