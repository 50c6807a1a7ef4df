package query

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/swdee/go-framemeta/geometry"
)

// kindNames maps each query kind to its wire name
var kindNames = map[queryKind]string{
	kindIdle:                 "idle",
	kindAnd:                  "and",
	kindOr:                   "or",
	kindNot:                  "not",
	kindID:                   "id",
	kindNamespace:            "namespace",
	kindLabel:                "label",
	kindConfidence:           "confidence",
	kindConfidenceDefined:    "confidence_defined",
	kindTrackDefined:         "track_defined",
	kindTrackID:              "track_id",
	kindTrackBoxXCenter:      "track_box_x_center",
	kindTrackBoxYCenter:      "track_box_y_center",
	kindTrackBoxWidth:        "track_box_width",
	kindTrackBoxHeight:       "track_box_height",
	kindTrackBoxArea:         "track_box_area",
	kindTrackBoxRatio:        "track_box_width_to_height_ratio",
	kindTrackBoxAngle:        "track_box_angle",
	kindTrackBoxAngleDefined: "track_box_angle_defined",
	kindTrackBoxMetric:       "track_box_metric",
	kindBoxXCenter:           "box_x_center",
	kindBoxYCenter:           "box_y_center",
	kindBoxWidth:             "box_width",
	kindBoxHeight:            "box_height",
	kindBoxArea:              "box_area",
	kindBoxRatio:             "box_width_to_height_ratio",
	kindBoxAngle:             "box_angle",
	kindBoxAngleDefined:      "box_angle_defined",
	kindBoxMetric:            "box_metric",
	kindBoxIntersectsArea:    "box_intersects_area",
	kindParentDefined:        "parent_defined",
	kindParentID:             "parent_id",
	kindParentNamespace:      "parent_namespace",
	kindParentLabel:          "parent_label",
	kindWithChildren:         "with_children",
	kindAttributeDefined:     "attribute_defined",
	kindAttributesEmpty:      "attributes_empty",
	kindAttributeIntValue:    "attribute_int_value",
	kindAttributeFloatValue:  "attribute_float_value",
	kindAttributeStringValue: "attribute_string_value",
}

// kindsByName is the reverse of kindNames
var kindsByName map[string]queryKind

func init() {
	kindsByName = make(map[string]queryKind, len(kindNames))

	for kind, name := range kindNames {
		kindsByName[name] = kind
	}
}

// boxWire is the wire form of a rotated bounding box
type boxWire struct {
	XC     float64  `json:"xc"`
	YC     float64  `json:"yc"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Angle  *float64 `json:"angle"`
}

// boxToWire converts a box to its wire form
func boxToWire(b geometry.RBBox) boxWire {

	w := boxWire{
		XC:     b.XCenter(),
		YC:     b.YCenter(),
		Width:  b.Width(),
		Height: b.Height(),
	}

	if angle, ok := b.Angle(); ok {
		w.Angle = &angle
	}

	return w
}

// boxFromWire converts the wire form back to a box
func boxFromWire(w boxWire) geometry.RBBox {

	if w.Angle != nil {
		return geometry.NewRBBoxWithAngle(w.XC, w.YC, w.Width, w.Height, *w.Angle)
	}

	return geometry.NewRBBox(w.XC, w.YC, w.Width, w.Height)
}

// pointWire is the wire form of a point
type pointWire struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// areaWire is the wire form of a polygonal area
type areaWire struct {
	Vertices []pointWire `json:"vertices"`
	Tags     []*string   `json:"tags,omitempty"`
}

// areaToWire converts a polygonal area to its wire form
func areaToWire(a geometry.PolygonalArea) areaWire {

	vertices := a.Vertices()
	w := areaWire{
		Vertices: make([]pointWire, len(vertices)),
		Tags:     a.Tags(),
	}

	for i, v := range vertices {
		w.Vertices[i] = pointWire{X: v.X, Y: v.Y}
	}

	return w
}

// areaFromWire converts the wire form back to a polygonal area
func areaFromWire(w areaWire) geometry.PolygonalArea {

	vertices := make([]geometry.Point, len(w.Vertices))

	for i, v := range w.Vertices {
		vertices[i] = geometry.NewPoint(v.X, v.Y)
	}

	return geometry.NewPolygonalArea(vertices, w.Tags)
}

// boxMetricWire is the wire form of a box overlap predicate
type boxMetricWire struct {
	Box       boxWire         `json:"box"`
	Metric    string          `json:"metric"`
	Threshold FloatExpression `json:"threshold"`
}

// withChildrenWire is the wire form of a child count predicate
type withChildrenWire struct {
	Query MatchQuery    `json:"query"`
	Count IntExpression `json:"count"`
}

// attrKeyWire is the wire form of an attribute presence predicate
type attrKeyWire struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// attrIntWire is the wire form of an integer attribute value predicate
type attrIntWire struct {
	Namespace  string        `json:"namespace"`
	Name       string        `json:"name"`
	Expression IntExpression `json:"expression"`
}

// attrFloatWire is the wire form of a float attribute value predicate
type attrFloatWire struct {
	Namespace  string          `json:"namespace"`
	Name       string          `json:"name"`
	Expression FloatExpression `json:"expression"`
}

// attrStringWire is the wire form of a string attribute value predicate
type attrStringWire struct {
	Namespace  string           `json:"namespace"`
	Name       string           `json:"name"`
	Expression StringExpression `json:"expression"`
}

// metricFromName resolves a metric wire name
func metricFromName(name string) (geometry.MetricType, error) {

	switch name {
	case "iou":
		return geometry.MetricIoU, nil
	case "ioself":
		return geometry.MetricIoSelf, nil
	case "ioother":
		return geometry.MetricIoOther, nil
	}

	return 0, fmt.Errorf("unknown metric %q", name)
}

// MarshalJSON encodes the query as a single key object keyed by the kind
// wire name
func (q MatchQuery) MarshalJSON() ([]byte, error) {

	name, ok := kindNames[q.kind]

	if !ok {
		return nil, fmt.Errorf("unknown query kind %d", q.kind)
	}

	var payload any

	switch q.kind {
	case kindIdle, kindConfidenceDefined, kindTrackDefined,
		kindTrackBoxAngleDefined, kindBoxAngleDefined, kindParentDefined,
		kindAttributesEmpty:
		payload = nil

	case kindAnd, kindOr:
		payload = q.children

	case kindNot:
		payload = q.sub

	case kindID, kindTrackID, kindParentID:
		payload = q.intExpr

	case kindNamespace, kindLabel, kindParentNamespace, kindParentLabel:
		payload = q.strExpr

	case kindConfidence,
		kindTrackBoxXCenter, kindTrackBoxYCenter, kindTrackBoxWidth,
		kindTrackBoxHeight, kindTrackBoxArea, kindTrackBoxRatio,
		kindTrackBoxAngle,
		kindBoxXCenter, kindBoxYCenter, kindBoxWidth, kindBoxHeight,
		kindBoxArea, kindBoxRatio, kindBoxAngle:
		payload = q.floatExpr

	case kindTrackBoxMetric, kindBoxMetric:
		payload = boxMetricWire{
			Box:       boxToWire(q.box),
			Metric:    q.metric.String(),
			Threshold: q.floatExpr,
		}

	case kindBoxIntersectsArea:
		payload = areaToWire(q.area)

	case kindWithChildren:
		payload = withChildrenWire{Query: *q.sub, Count: q.intExpr}

	case kindAttributeDefined:
		payload = attrKeyWire{Namespace: q.namespace, Name: q.name}

	case kindAttributeIntValue:
		payload = attrIntWire{
			Namespace:  q.namespace,
			Name:       q.name,
			Expression: q.intExpr,
		}

	case kindAttributeFloatValue:
		payload = attrFloatWire{
			Namespace:  q.namespace,
			Name:       q.name,
			Expression: q.floatExpr,
		}

	case kindAttributeStringValue:
		payload = attrStringWire{
			Namespace:  q.namespace,
			Name:       q.name,
			Expression: q.strExpr,
		}
	}

	return json.Marshal(map[string]any{name: payload})
}

// UnmarshalJSON decodes a query from its single key object form
func (q *MatchQuery) UnmarshalJSON(data []byte) error {

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw) != 1 {
		return fmt.Errorf("query must have exactly one key, got %d", len(raw))
	}

	var name string
	var payload json.RawMessage

	for k, v := range raw {
		name, payload = k, v
	}

	kind, ok := kindsByName[name]

	if !ok {
		return fmt.Errorf("unknown query kind %q", name)
	}

	out := MatchQuery{kind: kind}

	switch kind {
	case kindIdle, kindConfidenceDefined, kindTrackDefined,
		kindTrackBoxAngleDefined, kindBoxAngleDefined, kindParentDefined,
		kindAttributesEmpty:
		// payload ignored, conventionally null

	case kindAnd, kindOr:
		if err := json.Unmarshal(payload, &out.children); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

	case kindNot:
		var sub MatchQuery

		if err := json.Unmarshal(payload, &sub); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.sub = &sub

	case kindID, kindTrackID, kindParentID:
		if err := json.Unmarshal(payload, &out.intExpr); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

	case kindNamespace, kindLabel, kindParentNamespace, kindParentLabel:
		if err := json.Unmarshal(payload, &out.strExpr); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

	case kindConfidence,
		kindTrackBoxXCenter, kindTrackBoxYCenter, kindTrackBoxWidth,
		kindTrackBoxHeight, kindTrackBoxArea, kindTrackBoxRatio,
		kindTrackBoxAngle,
		kindBoxXCenter, kindBoxYCenter, kindBoxWidth, kindBoxHeight,
		kindBoxArea, kindBoxRatio, kindBoxAngle:
		if err := json.Unmarshal(payload, &out.floatExpr); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

	case kindTrackBoxMetric, kindBoxMetric:
		var w boxMetricWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		metric, err := metricFromName(w.Metric)

		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.box = boxFromWire(w.Box)
		out.metric = metric
		out.floatExpr = w.Threshold

	case kindBoxIntersectsArea:
		var w areaWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.area = areaFromWire(w)

	case kindWithChildren:
		var w withChildrenWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.sub = &w.Query
		out.intExpr = w.Count

	case kindAttributeDefined:
		var w attrKeyWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.namespace = w.Namespace
		out.name = w.Name

	case kindAttributeIntValue:
		var w attrIntWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.namespace = w.Namespace
		out.name = w.Name
		out.intExpr = w.Expression

	case kindAttributeFloatValue:
		var w attrFloatWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.namespace = w.Namespace
		out.name = w.Name
		out.floatExpr = w.Expression

	case kindAttributeStringValue:
		var w attrStringWire

		if err := json.Unmarshal(payload, &w); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		out.namespace = w.Namespace
		out.name = w.Name
		out.strExpr = w.Expression
	}

	*q = out
	return nil
}

// ToJSON returns the compact JSON form of the query
func (q MatchQuery) ToJSON() (string, error) {

	data, err := json.Marshal(q)

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// ToJSONPretty returns the indented JSON form of the query
func (q MatchQuery) ToJSONPretty() (string, error) {

	data, err := json.MarshalIndent(q, "", "  ")

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// FromJSON parses a query from its JSON form
func FromJSON(s string) (MatchQuery, error) {

	var q MatchQuery

	if err := json.Unmarshal([]byte(s), &q); err != nil {
		return MatchQuery{}, err
	}

	return q, nil
}

// ToYAML returns the YAML form of the query. The YAML document mirrors the
// JSON structure.
func (q MatchQuery) ToYAML() (string, error) {

	data, err := json.Marshal(q)

	if err != nil {
		return "", err
	}

	var tree any

	if err := json.Unmarshal(data, &tree); err != nil {
		return "", err
	}

	out, err := yaml.Marshal(tree)

	if err != nil {
		return "", err
	}

	return string(out), nil
}

// FromYAML parses a query from its YAML form
func FromYAML(s string) (MatchQuery, error) {

	var tree any

	if err := yaml.Unmarshal([]byte(s), &tree); err != nil {
		return MatchQuery{}, err
	}

	data, err := json.Marshal(tree)

	if err != nil {
		return MatchQuery{}, err
	}

	return FromJSON(string(data))
}
