package token

// Tag is a classification label attached to a scanned span.
type Tag string

// Config template tags.
const (
	String              Tag = "string"
	ExtrapolationOpen   Tag = "extrapolation-open"
	ExtrapolationClose  Tag = "extrapolation-close"
	ExtrapolationDot    Tag = "extrapolation-dot"
	ExtrapolationWord   Tag = "extrapolation-word"
	ExtrapolationMarker Tag = "extrapolation-marker"
	OpenBrace           Tag = "open-brace"
	CloseBrace          Tag = "close-brace"
	Eq                  Tag = "eq"
	Dot                 Tag = "dot"
	Comment             Tag = "comment"
	Word                Tag = "word"
)

// HL7 v2 message tags.
const (
	SegmentName           Tag = "segment-name"
	FieldSeparator        Tag = "field-separator"
	ComponentSeparator    Tag = "component-separator"
	SubcomponentSeparator Tag = "subcomponent-separator"
	None                  Tag = ""
)

var configTags = []Tag{
	String, ExtrapolationOpen, ExtrapolationClose, ExtrapolationDot,
	ExtrapolationWord, ExtrapolationMarker, OpenBrace, CloseBrace,
	Eq, Dot, Comment, Word,
}

var hl7Tags = []Tag{
	SegmentName, FieldSeparator, ComponentSeparator, SubcomponentSeparator, None,
}

var known = func() map[Tag]struct{} {
	m := make(map[Tag]struct{}, len(configTags)+len(hl7Tags))
	for _, t := range configTags {
		m[t] = struct{}{}
	}
	for _, t := range hl7Tags {
		m[t] = struct{}{}
	}
	return m
}()

// Known reports whether tag belongs to the published tag set.
func Known(tag Tag) bool {
	_, ok := known[tag]
	return ok
}

// ConfigTags returns every tag the config lexer may emit.
func ConfigTags() []Tag { return append([]Tag(nil), configTags...) }

// HL7Tags returns every tag the HL7 v2 lexer may emit.
func HL7Tags() []Tag { return append([]Tag(nil), hl7Tags...) }

// String returns the tag as the styling layer sees it.
func (t Tag) String() string { return string(t) }
