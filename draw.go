package framemeta

// drawLabelKind identifies which object a draw label targets
type drawLabelKind int

const (
	drawLabelOwn drawLabelKind = iota
	drawLabelParent
)

// DrawLabel is a rendering hint applied to objects selected by a query.
// The own form labels the matched object itself, the parent form labels
// the matched object's parent. The model stores the hint and never
// interprets it.
type DrawLabel struct {
	kind  drawLabelKind
	label string
}

// OwnLabel labels the matched objects themselves
func OwnLabel(label string) DrawLabel {
	return DrawLabel{kind: drawLabelOwn, label: label}
}

// ParentLabel labels the parents of the matched objects
func ParentLabel(label string) DrawLabel {
	return DrawLabel{kind: drawLabelParent, label: label}
}

// IsParent reports whether the hint targets the parent object
func (d DrawLabel) IsParent() bool {
	return d.kind == drawLabelParent
}

// Label returns the label text of the hint
func (d DrawLabel) Label() string {
	return d.label
}
